package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	UnitsProcessed   prometheus.Counter
	FindingsReported prometheus.Counter
}

// NewMetrics creates a self-contained metrics registry so tests can run
// multiple servers without collector name collisions.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "abapscan_http_requests_total",
			Help: "Number of HTTP requests processed, partitioned by method, path, and status code.",
		}, []string{"method", "path", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "abapscan_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		UnitsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "abapscan_units_processed_total",
			Help: "Number of units scanned by the remediation endpoint.",
		}),
		FindingsReported: factory.NewCounter(prometheus.CounterOpts{
			Name: "abapscan_findings_total",
			Help: "Number of findings reported by the remediation endpoint.",
		}),
	}

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Handler serves the text exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
