package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hospitalops/hospital-api/internal/config"
	"github.com/hospitalops/hospital-api/internal/handler"
	bedHandler "github.com/hospitalops/hospital-api/internal/handler/bed"
	healthHandler "github.com/hospitalops/hospital-api/internal/handler/health"
	hospitalHandler "github.com/hospitalops/hospital-api/internal/handler/hospital"
	inventoryHandler "github.com/hospitalops/hospital-api/internal/handler/inventory"
	patientHandler "github.com/hospitalops/hospital-api/internal/handler/patient"
	staffHandler "github.com/hospitalops/hospital-api/internal/handler/staff"
	"github.com/hospitalops/hospital-api/internal/middleware"
	"github.com/hospitalops/hospital-api/internal/repository/postgres"
	"github.com/hospitalops/hospital-api/internal/router"
	"github.com/hospitalops/hospital-api/internal/service/assignment"
	authService "github.com/hospitalops/hospital-api/internal/service/auth"
	bedService "github.com/hospitalops/hospital-api/internal/service/bed"
	dashboardService "github.com/hospitalops/hospital-api/internal/service/dashboard"
	hospitalService "github.com/hospitalops/hospital-api/internal/service/hospital"
	inventoryService "github.com/hospitalops/hospital-api/internal/service/inventory"
	patientService "github.com/hospitalops/hospital-api/internal/service/patient"
	staffService "github.com/hospitalops/hospital-api/internal/service/staff"
	"github.com/hospitalops/hospital-api/pkg/logger"
	"github.com/hospitalops/hospital-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	bedRepo := postgres.NewBedRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	bedSvc := bedService.NewService(bedRepo, appLogger)
	patientSvc := patientService.NewService(patientRepo, appLogger)
	hospitalSvc := hospitalService.NewService(hospitalRepo)
	staffSvc := staffService.NewService(staffRepo)
	inventorySvc := inventoryService.NewService(inventoryRepo)
	authSvc := authService.NewService(staffRepo, cfg.JWT)
	coordinator := assignment.NewCoordinator(bedSvc, patientSvc, appLogger)
	dashboardSvc := dashboardService.NewService(hospitalRepo, bedSvc, patientSvc, staffRepo, inventoryRepo, appLogger)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	emitter := handler.NewEmitter(outboxRepo, appLogger)

	bedH := bedHandler.NewHandler(bedSvc, emitter)
	patientH := patientHandler.NewHandler(patientSvc, coordinator, emitter)
	hospitalH := hospitalHandler.NewHandler(hospitalSvc, dashboardSvc)
	staffH := staffHandler.NewHandler(staffSvc, authSvc, dashboardSvc)
	inventoryH := inventoryHandler.NewHandler(inventorySvc, dashboardSvc)
	healthH := healthHandler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		healthH,
		staffH,
		router.Config{
			RateLimit:   rate.Limit(100),
			RateBurst:   200,
			RequireAuth: false,
			Logger:      appLogger,
		},
		bedH,
		patientH,
		hospitalH,
		inventoryH,
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
