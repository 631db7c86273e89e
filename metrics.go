package planval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors a Service records into.
type Metrics struct {
	Validations *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "planval",
				Name:      "validations_total",
				Help:      "Plans validated, by result",
			},
			[]string{"result"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "planval",
				Name:      "validation_errors_total",
				Help:      "Rejected plans, by error code",
			},
			[]string{"code"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "planval",
				Name:      "validation_duration_seconds",
				Help:      "Time spent validating one plan",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
	}
}
