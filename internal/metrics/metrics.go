// Package metrics exposes Prometheus collectors for the data pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the pipeline collectors.
type Metrics struct {
	fetches        *prometheus.CounterVec
	recordsParsed  *prometheus.CounterVec
	recordsDropped *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	pageViews      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "site",
			Name:      "dataset_fetches_total",
			Help:      "Dataset fetches by outcome.",
		}, []string{"dataset", "outcome"}),
		recordsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "site",
			Name:      "records_parsed_total",
			Help:      "Records parsed from dataset files.",
		}, []string{"dataset"}),
		recordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "site",
			Name:      "records_dropped_total",
			Help:      "Records left out because their category matched no bucket.",
		}, []string{"dataset"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "site",
			Name:      "render_duration_seconds",
			Help:      "Time spent grouping and rendering a dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"dataset"}),
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "site",
			Name:      "page_views_total",
			Help:      "Pages served by name.",
		}, []string{"page"}),
	}

	for _, c := range []prometheus.Collector{m.fetches, m.recordsParsed, m.recordsDropped, m.renderDuration, m.pageViews} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveFetch counts one fetch attempt.
func (m *Metrics) ObserveFetch(dataset string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.fetches.WithLabelValues(dataset, outcome).Inc()
}

// ObserveRecords counts parsed records.
func (m *Metrics) ObserveRecords(dataset string, n int) {
	if m == nil {
		return
	}
	m.recordsParsed.WithLabelValues(dataset).Add(float64(n))
}

// ObserveRender records one render and the records it dropped.
func (m *Metrics) ObserveRender(dataset string, took time.Duration, dropped int) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(dataset).Observe(took.Seconds())
	m.recordsDropped.WithLabelValues(dataset).Add(float64(dropped))
}

// ObservePageView counts one served page.
func (m *Metrics) ObservePageView(page string) {
	if m == nil {
		return
	}
	m.pageViews.WithLabelValues(page).Inc()
}
