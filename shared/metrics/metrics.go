// Package metrics provides Prometheus metrics for the storage core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	engineOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_engine_ops_total",
			Help: "Total number of key-value engine operations",
		},
		[]string{"op", "status"},
	)

	counterMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_counter_mutations_total",
			Help: "Total number of counter engine increments/decrements",
		},
		[]string{"class", "op"},
	)

	counterHoldDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_counter_hold_duration_seconds",
			Help:    "Time the counter-class gate is held per mutation",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		},
		[]string{"class"},
	)
)

// ObserveEngineOp records one engine operation outcome.
func ObserveEngineOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	engineOpsTotal.WithLabelValues(op, status).Inc()
}

// ObserveCounterMutation records one increment/decrement and its critical
// section hold time.
func ObserveCounterMutation(class, op string, held time.Duration) {
	counterMutationsTotal.WithLabelValues(class, op).Inc()
	counterHoldDuration.WithLabelValues(class).Observe(held.Seconds())
}
