// Package metrics holds the Prometheus instrumentation for the storage layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fintrack",
		Subsystem: "store",
		Name:      "op_duration_seconds",
		Help:      "Duration of storage operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	storeConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fintrack",
		Subsystem: "store",
		Name:      "conflicts_total",
		Help:      "Writes rejected by a uniqueness constraint.",
	})
)

// ObserveStoreOp records the duration of one storage operation.
// Call it as `defer metrics.ObserveStoreOp("user_create", time.Now())` at the
// top of the operation; the start time is captured when the defer is evaluated.
func ObserveStoreOp(op string, start time.Time) {
	storeOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// RecordConflict counts a write rejected by a uniqueness constraint.
func RecordConflict() {
	storeConflicts.Inc()
}
