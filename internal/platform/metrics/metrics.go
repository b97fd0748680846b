// Package metrics exposes gateway counters and latencies to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gateway"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Registry owns the gateway collectors. Each instance has its own
// prometheus registry so tests never collide.
type Registry struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Gateway operations by outcome.",
		}, []string{"operation", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Gateway operation latency, validation wait included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Operation failures by error category.",
		}, []string{"category"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_submissions_total",
			Help:      "Submitted transactions by type and final result code.",
		}, []string{"transaction_type", "result"}),
	}
	r.registry.MustRegister(
		r.operations,
		r.durations,
		r.errors,
		r.submissions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// TrackOperation starts timing operation. The returned func records the
// outcome from *errRef when it runs.
func (r *Registry) TrackOperation(operation string, errRef *error) func() {
	started := time.Now()
	return func() {
		r.durations.WithLabelValues(operation).Observe(time.Since(started).Seconds())
		outcome := OutcomeSuccess
		if errRef != nil && *errRef != nil {
			outcome = OutcomeError
		}
		r.operations.WithLabelValues(operation, outcome).Inc()
	}
}

// PreloadErrorCategories exports a zero series for every category so
// rate() queries see the series before the first failure.
func (r *Registry) PreloadErrorCategories(categories ...string) {
	for _, category := range categories {
		r.errors.WithLabelValues(category)
	}
}

func (r *Registry) RecordError(category string) {
	r.errors.WithLabelValues(category).Inc()
}

func (r *Registry) RecordSubmission(transactionType, result string) {
	r.submissions.WithLabelValues(transactionType, result).Inc()
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer is exposed for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
