package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of the classifier
type Metrics struct {
	Classifications *prometheus.CounterVec
	Duration        prometheus.Histogram
	Legs            prometheus.Histogram
	Rejects         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "combos_classifications_total",
				Help: "Classified leg sets by matched combination",
			},
			[]string{"combination"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "combos_classify_duration_seconds",
				Help:    "Time spent classifying one leg set",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
		),
		Legs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "combos_legs_per_request",
				Help:    "Number of legs per classification",
				Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
			},
		),
		Rejects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "combos_rejects_total",
				Help: "Requests that could not be classified, by reason",
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(m.Classifications, m.Duration, m.Legs, m.Rejects)
	return m
}

func (m *Metrics) observe(r Result) {
	m.Classifications.WithLabelValues(r.Name).Inc()
	m.Duration.Observe(r.Elapsed.Seconds())
	m.Legs.Observe(float64(len(r.Legs)))
}
