package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the HTTP-level Prometheus collectors.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	Failures       *prometheus.CounterVec
	UpstreamCalls  *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waflens_http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "waflens_http_failures_total",
			Help: "Failed requests by failure kind",
		}, []string{"kind"}),
		UpstreamCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "waflens_ai_upstream_calls_total",
			Help: "Calls to the AI provider by outcome",
		}, []string{"provider", "outcome"}),
	}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, route, status string, durationSeconds float64) {
	m.RequestLatency.WithLabelValues(method, route, status).Observe(durationSeconds)
}

// IncFailure counts a failure of the given kind.
func (m *Metrics) IncFailure(kind string) {
	m.Failures.WithLabelValues(kind).Inc()
}

// IncUpstream counts an AI provider call outcome ("ok" or "error").
func (m *Metrics) IncUpstream(provider, outcome string) {
	m.UpstreamCalls.WithLabelValues(provider, outcome).Inc()
}
