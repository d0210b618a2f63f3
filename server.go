package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zachkp/scholar-site/internal/config"
	"github.com/Zachkp/scholar-site/internal/logging"
	"github.com/Zachkp/scholar-site/internal/metrics"
	"github.com/Zachkp/scholar-site/internal/page"
	"github.com/Zachkp/scholar-site/internal/store"
)

var pageName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

type server struct {
	cfg        *config.Config
	dispatcher *page.Dispatcher
	store      *store.Store
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer

	adminToken string
}

func newServer(cfg *config.Config, d *page.Dispatcher, st *store.Store, m *metrics.Metrics, g prometheus.Gatherer) *server {
	if st != nil {
		d.OnRender = recordRender(st)
	}
	return &server{
		cfg:        cfg,
		dispatcher: d,
		store:      st,
		metrics:    m,
		gatherer:   g,
		adminToken: generateToken(),
	}
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(), s.visitorTracking())

	if s.cfg.Web.StaticDir != "" {
		r.Static("/static", s.cfg.Web.StaticDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	// HTMX endpoint - returns just the rendered listing
	r.GET("/fragments/:dataset", s.fragment)

	s.setupAdminRoutes(r)

	r.GET("/", func(c *gin.Context) { s.page(c, "index") })
	r.GET("/:page", func(c *gin.Context) { s.page(c, strings.TrimSuffix(c.Param("page"), ".html")) })

	return r
}

// page serves web/<name>.html with its dataset rendered in. Rendering
// problems are logged and the page is served as it is on disk.
func (s *server) page(c *gin.Context, name string) {
	if !pageName.MatchString(name) {
		c.String(http.StatusNotFound, "page not found")
		return
	}

	src, err := os.ReadFile(filepath.Join(s.cfg.Web.PagesDir, name+".html"))
	if errors.Is(err, fs.ErrNotExist) {
		c.String(http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "read page", slog.String("page", name), slog.String("error", err.Error()))
		c.String(http.StatusInternalServerError, "error loading page")
		return
	}

	out, err := s.dispatcher.Dispatch(c.Request.Context(), c.Request.URL.Path, src)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "render page", slog.String("page", name), slog.String("error", err.Error()))
		out = src
	}

	s.metrics.ObservePageView(name)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, "text/html; charset=utf-8", out)
}

func (s *server) fragment(c *gin.Context) {
	ds, ok := s.dispatcher.Dataset(c.Param("dataset"))
	if !ok {
		c.String(http.StatusNotFound, "unknown dataset")
		return
	}

	out, err := s.dispatcher.Fragment(c.Request.Context(), ds)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "render fragment", slog.String("dataset", ds.Name), slog.String("error", err.Error()))
		out = ""
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

func recordRender(st *store.Store) func(context.Context, page.Report) {
	return func(ctx context.Context, r page.Report) {
		err := st.RecordRender(ctx, store.Render{
			Dataset:     r.Dataset,
			Records:     r.Records,
			Rendered:    r.Rendered,
			Dropped:     r.Dropped,
			FetchFailed: r.FetchFailed,
		})
		if err != nil {
			slog.WarnContext(ctx, "could not record render", slog.String("error", err.Error()))
		}
	}
}

// requestID tags every request with an X-Request-ID, reusing the caller's.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("took", time.Since(start)))
	}
}

// visitorTracking stores a hashed-IP visit for page requests. Static files,
// admin pages, fragments and Do Not Track requests are not recorded.
func (s *server) visitorTracking() gin.HandlerFunc {
	skip := []string{"/static/", "/admin/", "/fragments/", "/favicon", "/metrics", "/healthz"}
	return func(c *gin.Context) {
		if s.store == nil || c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range skip {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		ctx := context.WithoutCancel(c.Request.Context())
		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := s.store.RecordVisit(ctx, ip, ua, path); err != nil {
				slog.WarnContext(ctx, "could not record visit", slog.String("error", err.Error()))
			}
		}()
		c.Next()
	}
}
