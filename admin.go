// admin.go - privacy-conscious admin dashboard
package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/scholar-site/internal/csvdata"
)

const adminCookie = "admin_token"

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("failed to generate token: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// adminCredentials returns the configured login. Outside debug mode there
// are no fallback credentials, so an unset password disables login.
func (s *server) adminCredentials() (user, pass string) {
	user, pass = s.cfg.Admin.Username, s.cfg.Admin.Password
	if gin.Mode() != gin.DebugMode {
		return user, pass
	}
	if user == "" {
		user = "admin"
		slog.Warn("using default admin username, set SITE_ADMIN_USERNAME")
	}
	if pass == "" {
		pass = "admin123"
		slog.Warn("using default admin password, set SITE_ADMIN_PASSWORD")
	}
	return user, pass
}

func (s *server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		src, err := os.ReadFile(filepath.Join(s.cfg.Web.PagesDir, "admin-login.html"))
		if err != nil {
			c.String(http.StatusNotFound, "login page not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", src)
	})

	r.POST("/admin/login", func(c *gin.Context) {
		user, pass := s.adminCredentials()
		gotUser, gotPass := c.PostForm("username"), c.PostForm("password")

		ok := pass != "" &&
			subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) == 1 &&
			subtle.ConstantTimeCompare([]byte(gotPass), []byte(pass)) == 1
		if !ok {
			slog.WarnContext(c.Request.Context(), "failed admin login", slog.String("client", s.hashClient(c)))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		slog.InfoContext(c.Request.Context(), "admin login", slog.String("client", s.hashClient(c)))
		c.Redirect(http.StatusFound, "/admin/api/stats")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/api/stats", s.adminStats)

	admin.GET("/export/stats", func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.adminStats(c)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking is disabled"})
			return
		}
		n, err := s.store.Cleanup(c.Request.Context(), s.cfg.Admin.Retention)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "privacy cleanup", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": n})
	})

	// Normalised copy of a dataset as the site currently reads it.
	admin.GET("/export/data/:file", func(c *gin.Context) {
		ds, ok := s.dispatcher.Dataset(strings.TrimSuffix(c.Param("file"), ".csv"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown dataset"})
			return
		}
		res := s.dispatcher.Load(c.Request.Context(), ds)
		if res.Failed {
			c.JSON(http.StatusBadGateway, gin.H{"error": "dataset could not be fetched"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+ds.File)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvdata.FormatRecords(res.Header, res.Records)))
	})
}

func (s *server) adminStats(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking is disabled"})
		return
	}
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "load admin stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *server) hashClient(c *gin.Context) string {
	if s.store == nil {
		return "-"
	}
	return s.store.HashIP(c.ClientIP())
}
