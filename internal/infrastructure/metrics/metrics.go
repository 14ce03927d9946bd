// Package metrics exposes Prometheus collectors for the receipt service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "receipt_processor"

// Metrics groups every collector the service records to
type Metrics struct {
	registry *prometheus.Registry

	ReceiptsProcessed  prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	PointsLookups      *prometheus.CounterVec
	PointsAwarded      prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the service collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ReceiptsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_processed_total",
			Help:      "Receipts accepted and stored.",
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected receipt submissions by first failing field.",
		}, []string{"field"}),
		PointsLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_lookups_total",
			Help:      "Points lookups by outcome (hit, computed, not_found, error).",
		}, []string{"result"}),
		PointsAwarded: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "points_awarded",
			Help:      "Distribution of computed receipt points.",
			Buckets:   []float64{10, 25, 50, 75, 100, 150, 250, 500},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheStats is the view of a cache exported as metrics
type CacheStats interface {
	Size() int
	Stats() (hits, misses uint64)
}

// RegisterPointsCache exports the cache's hit and miss counts and its size.
// Only one cache can be registered per Metrics.
func (m *Metrics) RegisterPointsCache(c CacheStats) error {
	hits := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_cache_hits_total",
		Help:      "Points lookups answered from the cache.",
	}, func() float64 {
		h, _ := c.Stats()
		return float64(h)
	})
	misses := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_cache_misses_total",
		Help:      "Points lookups that had to load the receipt.",
	}, func() float64 {
		_, mi := c.Stats()
		return float64(mi)
	})
	entries := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "points_cache_entries",
		Help:      "Receipts with memoised points.",
	}, func() float64 {
		return float64(c.Size())
	})

	for _, col := range []prometheus.Collector{hits, misses, entries} {
		if err := m.registry.Register(col); err != nil {
			return err
		}
	}
	return nil
}
