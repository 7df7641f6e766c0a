package worker

import (
	"context"
	"time"

	"github.com/hospitalops/hospital-api/internal/email"
	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	"github.com/hospitalops/hospital-api/internal/service/dashboard"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

// AlertMonitor periodically evaluates hospital alerts and emails critical
// ones. Alerts themselves are never persisted; the monitor only tracks which
// critical alerts it already notified about in memory, so restarts re-send.
type AlertMonitor struct {
	hospitals repository.HospitalRepository
	dashboard dashboard.DashboardService
	notifier  email.Service
	interval  time.Duration
	logger    *logger.Logger

	notified map[string]struct{}
}

func NewAlertMonitor(
	hospitals repository.HospitalRepository,
	dashboard dashboard.DashboardService,
	notifier email.Service,
	interval time.Duration,
	logger *logger.Logger,
) *AlertMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &AlertMonitor{
		hospitals: hospitals,
		dashboard: dashboard,
		notifier:  notifier,
		interval:  interval,
		logger:    logger,
		notified:  make(map[string]struct{}),
	}
}

func (m *AlertMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("starting alert monitor")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("shutting down alert monitor")
			return
		case <-ticker.C:
			m.checkAll(ctx)
		}
	}
}

func (m *AlertMonitor) checkAll(ctx context.Context) {
	hospitals, err := m.hospitals.List(ctx)
	if err != nil {
		m.logger.Error(err, "failed to list hospitals for alert check")
		return
	}

	active := make(map[string]struct{})
	for _, h := range hospitals {
		if !h.IsActive {
			continue
		}
		alerts, err := m.dashboard.GetHospitalAlerts(ctx, h.HospitalID)
		if err != nil {
			m.logger.Error(err, "failed to evaluate alerts", "hospital_id", h.HospitalID)
			continue
		}
		for _, alert := range alerts {
			if alert.Level != model.AlertLevelCritical {
				continue
			}
			key := h.HospitalID + ":" + string(alert.Category)
			active[key] = struct{}{}
			if _, seen := m.notified[key]; seen {
				continue
			}
			if err := m.notifier.SendAlert(ctx, h.HospitalID, alert); err != nil {
				m.logger.Error(err, "failed to send alert notification",
					"hospital_id", h.HospitalID, "category", string(alert.Category))
				continue
			}
			m.notified[key] = struct{}{}
		}
	}

	// Forget resolved alerts so they notify again if they recur.
	for key := range m.notified {
		if _, still := active[key]; !still {
			delete(m.notified, key)
		}
	}
}
