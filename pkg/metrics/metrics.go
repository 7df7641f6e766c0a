package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Assignment coordinator metrics
	AssignmentOps      *prometheus.CounterVec
	AssignmentDuration *prometheus.HistogramVec
	PartialFailures    prometheus.Counter

	// Reconciliation metrics
	ReconcileRuns    prometheus.Counter
	ReconcileRepairs *prometheus.CounterVec

	// Outbox metrics
	OutboxEventsProcessed prometheus.Counter
	OutboxEventsFailed    prometheus.Counter
	OutboxQueueLatency    prometheus.Histogram
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AssignmentOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_operations_total",
			Help:      "Assignment coordinator operations by type and outcome",
		}, []string{"operation", "outcome"}),
		AssignmentDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assignment_operation_duration_seconds",
			Help:      "Time spent in assignment coordinator operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		PartialFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_partial_failures_total",
			Help:      "Coordinator operations that completed the bed step but not the patient step",
		}),
		ReconcileRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation sweeps executed",
		}),
		ReconcileRepairs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_repairs_total",
			Help:      "Drift repairs by kind",
		}, []string{"kind"}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully published outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxQueueLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_queue_latency_seconds",
			Help:      "Time between event creation and publication",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 30, 60},
		}),
	}
}
