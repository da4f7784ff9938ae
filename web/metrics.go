package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// Metrics holds the Prometheus instruments for the web surface.
type Metrics struct {
	SessionsActive  prometheus.Gauge
	CapturesTotal   *prometheus.CounterVec
	CaptureDuration *prometheus.HistogramVec
	ExportsTotal    prometheus.Counter
}

// NewMetrics creates and registers all instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live counting sessions",
		}),
		CapturesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_total",
			Help:      "Capture submissions by provider and outcome",
		}, []string{"provider", "outcome"}),
		CaptureDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "capture_duration_seconds",
			Help:      "End-to-end capture processing latency",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
		}, []string{"provider"}),
		ExportsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Number of CSV exports served",
		}),
	}
}
