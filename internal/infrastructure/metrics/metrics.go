package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics bundles Prometheus collectors for the registry service.
type Metrics struct {
	Registry           *prometheus.Registry
	FetchAttemptsTotal *prometheus.CounterVec
	FetchDuration      *prometheus.HistogramVec
	ExtractionsTotal   *prometheus.CounterVec
	RegistryWrites     *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	fetchAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_fetch_attempts_total",
			Help: "Page fetch attempts by transport strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)
	fetchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_fetch_duration_seconds",
			Help:    "Latency of page fetch attempts by transport strategy.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)
	extractions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_extractions_total",
			Help: "Product extractions by outcome.",
		},
		[]string{"outcome"},
	)
	writes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_writes_total",
			Help: "Registry write operations by kind and result.",
		},
		[]string{"kind", "result"},
	)

	registry.MustRegister(
		fetchAttempts,
		fetchDuration,
		extractions,
		writes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:           registry,
		FetchAttemptsTotal: fetchAttempts,
		FetchDuration:      fetchDuration,
		ExtractionsTotal:   extractions,
		RegistryWrites:     writes,
	}
}

// ObserveFetch records one transport attempt.
func (m *Metrics) ObserveFetch(strategy, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
	m.FetchDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// IncExtraction increments the extraction counter for an outcome label.
func (m *Metrics) IncExtraction(outcome string) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
}

// IncWrite increments the registry write counter.
func (m *Metrics) IncWrite(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RegistryWrites.WithLabelValues(kind, result).Inc()
}
