package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/hospitalops/hospital-api/internal/config"
	"github.com/hospitalops/hospital-api/internal/email"
	"github.com/hospitalops/hospital-api/internal/repository/postgres"
	"github.com/hospitalops/hospital-api/internal/service/assignment"
	bedService "github.com/hospitalops/hospital-api/internal/service/bed"
	dashboardService "github.com/hospitalops/hospital-api/internal/service/dashboard"
	patientService "github.com/hospitalops/hospital-api/internal/service/patient"
	"github.com/hospitalops/hospital-api/pkg/logger"
	"github.com/hospitalops/hospital-api/pkg/messaging/redis"
	"github.com/hospitalops/hospital-api/pkg/metrics"
	"github.com/hospitalops/hospital-api/pkg/worker"
)

// workerConfig is sourced from the environment so the worker can run
// standalone in containers without a config file.
type workerConfig struct {
	DatabaseHost     string `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string `envconfig:"DB_USER" default:"postgres"`
	DatabasePassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DatabaseName     string `envconfig:"DB_NAME" default:"hospital"`
	DatabaseSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	OutboxChannel      string        `envconfig:"OUTBOX_CHANNEL" default:"hospital-events"`

	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"1m"`
	AlertInterval     time.Duration `envconfig:"ALERT_INTERVAL" default:"5m"`

	MetricsPort int `envconfig:"METRICS_PORT" default:"8081"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:""`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"alerts@hospital.local"`
	SMTPAlertsTo string `envconfig:"SMTP_ALERTS_TO" default:""`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("hospital", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Name:     cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	bedRepo := postgres.NewBedRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	bedSvc := bedService.NewService(bedRepo, appLogger)
	patientSvc := patientService.NewService(patientRepo, appLogger)
	coordinator := assignment.NewCoordinator(bedSvc, patientSvc, appLogger)
	dashboardSvc := dashboardService.NewService(hospitalRepo, bedSvc, patientSvc, staffRepo, inventoryRepo, appLogger)

	notifier := email.NewSMTPService(config.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		AlertsTo: cfg.SMTPAlertsTo,
	})

	m := metrics.NewMetrics("hospital")

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.OutboxBatchSize,
		PollInterval: cfg.OutboxPollInterval,
		Channel:      cfg.OutboxChannel,
	}, appLogger, m)
	reconciler := worker.NewReconciler(coordinator, cfg.ReconcileInterval, appLogger, m)
	alertMonitor := worker.NewAlertMonitor(hospitalRepo, dashboardSvc, notifier, cfg.AlertInterval, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for _, w := range []interface{ Start(context.Context) }{
		outboxProcessor,
		reconciler,
		alertMonitor,
	} {
		wg.Add(1)
		go func(w interface{ Start(context.Context) }) {
			defer wg.Done()
			w.Start(ctx)
		}(w)
	}

	go serveMetrics(cfg.MetricsPort, appLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down workers...")

	cancel()
	wg.Wait()
	log.Info().Msg("workers exited properly")
}

func serveMetrics(port int, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		appLogger.ZL.Error().Err(err).Msg("metrics server failed")
		os.Exit(1)
	}
}
