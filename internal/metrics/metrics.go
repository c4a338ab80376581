package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service counters.
type Metrics struct {
	SessionsStarted prometheus.Counter
	SessionsClosed  prometheus.Counter
	Revenue         prometheus.Counter
	ExtrasDropped   prometheus.Counter
}

// New registers counters on the default registry.
func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lounge_sessions_started_total",
			Help: "Play sessions started.",
		}),
		SessionsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lounge_sessions_closed_total",
			Help: "Play sessions closed with a bill.",
		}),
		Revenue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lounge_revenue_total",
			Help: "Grand totals of closed bills, in currency units.",
		}),
		ExtrasDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lounge_extras_dropped_total",
			Help: "Extras lines dropped for unknown product or bad quantity.",
		}),
	}
}
