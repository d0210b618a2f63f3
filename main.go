package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Zachkp/scholar-site/internal/config"
	"github.com/Zachkp/scholar-site/internal/listing"
	"github.com/Zachkp/scholar-site/internal/logging"
	"github.com/Zachkp/scholar-site/internal/metrics"
	"github.com/Zachkp/scholar-site/internal/page"
	"github.com/Zachkp/scholar-site/internal/source"
	"github.com/Zachkp/scholar-site/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	datasets := listing.Datasets()
	renderer, err := listing.NewRenderer(datasets)
	if err != nil {
		return fmt.Errorf("compile templates: %w", err)
	}
	loader := source.NewLoader(source.New(cfg.Data.Base, cfg.Data.FetchTimeout), m)
	dispatcher := page.NewDispatcher(datasets, loader, renderer, m)

	var st *store.Store
	if cfg.Store.Path != "" {
		st, err = store.Open(ctx, cfg.Store.Path, generateToken())
		if err != nil {
			return err
		}
		defer st.Close()

		go cleanupVisitors(ctx, st, cfg.Admin.Retention)
		slog.Info("visitor tracking enabled with hashed IP addresses", slog.String("db", cfg.Store.Path))
	}

	s := newServer(cfg, dispatcher, st, m, reg)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.Int("port", cfg.Server.Port), slog.String("data", cfg.Data.Base))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// cleanupVisitors drops visitor rows past the retention window once at
// startup and then daily.
func cleanupVisitors(ctx context.Context, st *store.Store, retention time.Duration) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		n, err := st.Cleanup(ctx, retention)
		if err != nil {
			slog.Error("visitor cleanup failed", slog.String("error", err.Error()))
		} else if n > 0 {
			slog.Info("privacy cleanup removed old visitor records", slog.Int64("removed", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
