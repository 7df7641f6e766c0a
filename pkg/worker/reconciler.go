package worker

import (
	"context"
	"time"

	"github.com/hospitalops/hospital-api/internal/service/assignment"
	"github.com/hospitalops/hospital-api/pkg/logger"
	"github.com/hospitalops/hospital-api/pkg/metrics"
)

// Reconciler periodically runs the assignment coordinator's reconciliation
// sweep so drift from partial failures never outlives one interval.
type Reconciler struct {
	coordinator *assignment.Coordinator
	interval    time.Duration
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewReconciler(coordinator *assignment.Coordinator, interval time.Duration, logger *logger.Logger, metrics *metrics.Metrics) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reconciler{
		coordinator: coordinator,
		interval:    interval,
		logger:      logger,
		metrics:     metrics,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("starting reconciliation sweeper")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down reconciliation sweeper")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reconciler) runOnce(ctx context.Context) {
	r.metrics.ReconcileRuns.Inc()

	report, err := r.coordinator.Reconcile(ctx)
	if err != nil {
		r.logger.Error(err, "reconciliation sweep failed")
		return
	}

	r.metrics.ReconcileRepairs.WithLabelValues("beds_released").Add(float64(report.BedsReleased))
	r.metrics.ReconcileRepairs.WithLabelValues("patients_repaired").Add(float64(report.PatientsRepaired))
	r.metrics.ReconcileRepairs.WithLabelValues("assignments_cleared").Add(float64(report.AssignmentsCleared))
}
