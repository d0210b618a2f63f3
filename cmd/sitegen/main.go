// Command sitegen renders every page in the pages directory with its dataset
// and writes the results to an output directory, for hosting without the
// server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/scholar-site/internal/config"
	"github.com/Zachkp/scholar-site/internal/listing"
	"github.com/Zachkp/scholar-site/internal/logging"
	"github.com/Zachkp/scholar-site/internal/page"
	"github.com/Zachkp/scholar-site/internal/source"
)

type options struct {
	pagesDir string
	dataBase string
	outDir   string
	workers  int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := options{}
	flag.StringVar(&opts.pagesDir, "pages", cfg.Web.PagesDir, "Directory holding the page HTML files")
	flag.StringVar(&opts.dataBase, "data", cfg.Data.Base, "Data directory or base URL for the CSV files")
	flag.StringVar(&opts.outDir, "out", "dist", "Output directory")
	flag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "Pages rendered concurrently")
	flag.Parse()

	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := newDispatcher(source.New(opts.dataBase, cfg.Data.FetchTimeout))
	if err != nil {
		slog.Error("setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	n, err := build(ctx, d, opts)
	if err != nil {
		slog.Error("build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("site built", slog.Int("pages", n), slog.String("out", opts.outDir))
}

func newDispatcher(src source.Source) (*page.Dispatcher, error) {
	datasets := listing.Datasets()
	renderer, err := listing.NewRenderer(datasets)
	if err != nil {
		return nil, fmt.Errorf("compile templates: %w", err)
	}
	return page.NewDispatcher(datasets, source.NewLoader(src, nil), renderer, nil), nil
}

// build renders every *.html file in opts.pagesDir into opts.outDir and
// returns how many pages were written.
func build(ctx context.Context, d *page.Dispatcher, opts options) (int, error) {
	pages, err := filepath.Glob(filepath.Join(opts.pagesDir, "*.html"))
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.workers, 1))
	for _, path := range pages {
		path := path
		g.Go(func() error {
			return buildPage(ctx, d, path, opts.outDir)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(pages), nil
}

func buildPage(ctx context.Context, d *page.Dispatcher, path, outDir string) error {
	name := filepath.Base(path)
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, err := d.Dispatch(ctx, "/"+strings.TrimSuffix(name, ".html"), src)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(outDir, name), out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	slog.DebugContext(ctx, "page written", slog.String("page", name))
	return nil
}
