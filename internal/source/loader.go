package source

import (
	"context"
	"log/slog"

	"github.com/Zachkp/scholar-site/internal/csvdata"
	"github.com/Zachkp/scholar-site/internal/listing"
	"github.com/Zachkp/scholar-site/internal/logging"
	"github.com/Zachkp/scholar-site/internal/metrics"
)

// Loader fetches and parses a dataset. Failures never reach the caller: they
// are logged and the dataset loads as empty.
type Loader struct {
	source  Source
	metrics *metrics.Metrics
}

// NewLoader returns a Loader over src. m may be nil.
func NewLoader(src Source, m *metrics.Metrics) *Loader {
	return &Loader{source: src, metrics: m}
}

// Result is what a single load produced.
type Result struct {
	Header  []string
	Records []csvdata.Record
	Failed  bool
}

// Load fetches ds.File once and parses it.
func (l *Loader) Load(ctx context.Context, ds listing.Dataset) Result {
	logger := logging.FromContext(ctx).With(slog.String("dataset", ds.Name), slog.String("file", ds.File))

	text, err := l.source.Fetch(ctx, ds.File)
	if err != nil {
		logger.Error("fetch failed, rendering empty dataset", slog.String("error", err.Error()))
		l.metrics.ObserveFetch(ds.Name, false)
		return Result{Failed: true}
	}

	table := csvdata.ParseTable(text)
	logger.Debug("dataset fetched", slog.Int("records", len(table.Records)))
	l.metrics.ObserveFetch(ds.Name, true)
	l.metrics.ObserveRecords(ds.Name, len(table.Records))
	return Result{Header: table.Header, Records: table.Records}
}
