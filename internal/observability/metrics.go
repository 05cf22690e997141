package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrorsTotal     *prometheus.CounterVec
	UpstreamCallsTotal  *prometheus.CounterVec
	SearchRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a private registry, so
// multiple instances can coexist in tests.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of error responses by path, method, and error code.",
			},
			[]string{"path", "method", "code"},
		),
		UpstreamCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_calls_total",
				Help: "Total upstream API calls by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		SearchRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_requests_total",
				Help: "Total knowledge-base searches by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPErrorsTotal,
		m.UpstreamCallsTotal,
		m.SearchRequestsTotal,
	)
	return m
}

// Handler returns the scrape endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.HTTPErrorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordUpstream increments the upstream call counter.
func (m *Metrics) RecordUpstream(operation, outcome string) {
	if m == nil {
		return
	}
	m.UpstreamCallsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordSearch increments the search counter.
func (m *Metrics) RecordSearch(source, outcome string) {
	if m == nil {
		return
	}
	m.SearchRequestsTotal.WithLabelValues(source, outcome).Inc()
}
