package internal

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts gateway calls per endpoint and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wxpay",
				Name:      "requests_total",
				Help:      "Gateway requests by endpoint and outcome",
			},
			[]string{"endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wxpay",
				Name:      "request_duration_seconds",
				Help:      "Gateway request round trip duration",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.2, 2, 3, 5, 10},
			},
			[]string{"endpoint"},
		),
	}
}

// Register adds the collectors to registerer. Collectors already registered
// by another client are adopted, so several clients share one set of series.
func (m *Metrics) Register(registerer prometheus.Registerer) error {
	if err := registerer.Register(m.requests); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return err
		}
		m.requests = existing
	}
	if err := registerer.Register(m.duration); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return err
		}
		m.duration = existing
	}
	return nil
}

// Observe records one call; safe on a nil receiver.
func (m *Metrics) Observe(endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, status).Inc()
	m.duration.WithLabelValues(endpoint).Observe(seconds)
}

// Requests exposes the counter for inspection in tests.
func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}
