package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Return lifecycle metrics
	ReturnsCreatedTotal *prometheus.CounterVec
	TransitionsTotal    *prometheus.CounterVec

	// Refund metrics
	RefundsTotal   *prometheus.CounterVec
	RefundDuration *prometheus.HistogramVec

	// Messaging metrics
	MessagesSentTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates a new Metrics instance registered on reg.
// A nil reg means a fresh registry with Go and process collectors.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "returns"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		ReturnsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_created_total",
				Help:      "Total number of return requests created",
			},
			nil,
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of return request status transitions",
			},
			[]string{"from", "to"},
		),

		RefundsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refunds_total",
				Help:      "Total number of refund attempts",
			},
			[]string{"provider", "outcome", "kind"}, // outcome: success, retryable_error, fatal_error
		),
		RefundDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "refund_duration_seconds",
				Help:      "Refund gateway call duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),

		MessagesSentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_sent_total",
				Help:      "Total number of return messages sent",
			},
			[]string{"sender_type"},
		),

		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordReturnCreated records a new return request.
func (m *Metrics) RecordReturnCreated() {
	m.ReturnsCreatedTotal.WithLabelValues().Inc()
}

// RecordReturnTransition records a status change.
func (m *Metrics) RecordReturnTransition(from, to string) {
	m.TransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordRefund records a refund gateway call.
func (m *Metrics) RecordRefund(provider, outcome, kind string, elapsed time.Duration) {
	m.RefundsTotal.WithLabelValues(provider, outcome, kind).Inc()
	m.RefundDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordMessageSent records a message.
func (m *Metrics) RecordMessageSent(senderType string) {
	m.MessagesSentTotal.WithLabelValues(senderType).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
