package shootout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts gameplay events for the /metrics endpoint.
type Metrics struct {
	SessionsCreated prometheus.Counter
	Answers         *prometheus.CounterVec
	Skips           prometheus.Counter
	Resets          prometheus.Counter
}

// NewMetrics registers gameplay counters on the given registerer. Pass a
// fresh registry in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "shootout_sessions_created_total",
			Help: "Daily keeper sessions created.",
		}),
		Answers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shootout_answers_total",
			Help: "Answers submitted, by result.",
		}, []string{"result"}),
		Skips: factory.NewCounter(prometheus.CounterOpts{
			Name: "shootout_skips_total",
			Help: "Questions skipped.",
		}),
		Resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "shootout_resets_total",
			Help: "Completed sessions reset for another run.",
		}),
	}
}
