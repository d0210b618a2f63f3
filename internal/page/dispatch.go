// Package page picks the dataset for a page, renders it and places the
// result into the page's container element.
package page

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Zachkp/scholar-site/internal/listing"
	"github.com/Zachkp/scholar-site/internal/logging"
	"github.com/Zachkp/scholar-site/internal/metrics"
	"github.com/Zachkp/scholar-site/internal/source"
)

// Report describes one fetch+render cycle.
type Report struct {
	Dataset     string
	Records     int
	Rendered    int
	Dropped     int
	FetchFailed bool
}

// Dispatcher runs at most one dataset per page.
type Dispatcher struct {
	datasets []listing.Dataset
	loader   *source.Loader
	renderer *listing.Renderer
	metrics  *metrics.Metrics

	// OnRender, when set, is called after every render.
	OnRender func(ctx context.Context, r Report)
}

// NewDispatcher returns a Dispatcher over datasets. Their order is the order
// Select tries them in.
func NewDispatcher(datasets []listing.Dataset, loader *source.Loader, renderer *listing.Renderer, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{datasets: datasets, loader: loader, renderer: renderer, metrics: m}
}

// Select returns the first dataset whose name occurs in path.
func (d *Dispatcher) Select(path string) (listing.Dataset, bool) {
	for _, ds := range d.datasets {
		if strings.Contains(path, ds.Name) {
			return ds, true
		}
	}
	return listing.Dataset{}, false
}

// Dataset returns the dataset called name.
func (d *Dispatcher) Dataset(name string) (listing.Dataset, bool) {
	for _, ds := range d.datasets {
		if ds.Name == name {
			return ds, true
		}
	}
	return listing.Dataset{}, false
}

// Load fetches and parses ds without rendering it.
func (d *Dispatcher) Load(ctx context.Context, ds listing.Dataset) source.Result {
	return d.loader.Load(ctx, ds)
}

// Fragment loads ds and renders it. A failed fetch renders as "".
func (d *Dispatcher) Fragment(ctx context.Context, ds listing.Dataset) (string, error) {
	res := d.loader.Load(ctx, ds)

	start := time.Now()
	grouped := listing.Group(ds, res.Records)
	out, err := d.renderer.RenderGrouped(ds, grouped)
	if err != nil {
		return "", err
	}
	d.metrics.ObserveRender(ds.Name, time.Since(start), grouped.Dropped())

	if grouped.Dropped() > 0 {
		logging.FromContext(ctx).Debug("records without a matching category were left out",
			slog.String("dataset", ds.Name), slog.Int("dropped", grouped.Dropped()))
	}
	if d.OnRender != nil {
		d.OnRender(ctx, Report{
			Dataset:     ds.Name,
			Records:     len(res.Records),
			Rendered:    grouped.Len(),
			Dropped:     grouped.Dropped(),
			FetchFailed: res.Failed,
		})
	}
	return out, nil
}

// Dispatch renders the dataset selected by path into src. Pages that select
// no dataset, or lack the dataset's container, come back unchanged and
// nothing is fetched.
func (d *Dispatcher) Dispatch(ctx context.Context, path string, src []byte) ([]byte, error) {
	ds, ok := d.Select(path)
	if !ok {
		return src, nil
	}

	doc, err := ParseDocument(src)
	if err != nil {
		return nil, err
	}
	container := doc.Container(ds.Container)
	if container == nil {
		logging.FromContext(ctx).Debug("page has no container, skipping render",
			slog.String("dataset", ds.Name), slog.String("container", ds.Container))
		return src, nil
	}

	fragment, err := d.Fragment(ctx, ds)
	if err != nil {
		return nil, err
	}
	if err := doc.SetInner(container, fragment); err != nil {
		return nil, err
	}
	return doc.Bytes()
}
