package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gateway requests by resource, method and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seatctl_gateway_requests_total",
			Help: "API requests issued by the gateway.",
		}, []string{"resource", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seatctl_gateway_request_duration_seconds",
			Help:    "API request latency including the retry.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "method"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(resource, method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, method, outcome).Inc()
	m.duration.WithLabelValues(resource, method).Observe(seconds)
}
