package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus metrics exposed by the VIP backend.
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Business Metrics
	ApplicationsSubmittedTotal  prometheus.Counter
	ApplicationTransitionsTotal prometheus.CounterVec
}

// NewRegistry initializes and returns a new Registry with all metrics.
func NewRegistry() *Registry {
	return &Registry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vip_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vip_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),
		ApplicationsSubmittedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vip_applications_submitted_total",
				Help: "Total membership applications submitted",
			},
		),
		ApplicationTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_application_transitions_total",
				Help: "Total application status transitions by resulting status",
			},
			[]string{"status"},
		),
	}
}
