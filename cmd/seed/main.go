package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hospitalops/hospital-api/internal/config"
	"github.com/hospitalops/hospital-api/internal/repository/postgres"
	"github.com/hospitalops/hospital-api/internal/seed"
	"github.com/hospitalops/hospital-api/internal/service/assignment"
	bedService "github.com/hospitalops/hospital-api/internal/service/bed"
	hospitalService "github.com/hospitalops/hospital-api/internal/service/hospital"
	inventoryService "github.com/hospitalops/hospital-api/internal/service/inventory"
	patientService "github.com/hospitalops/hospital-api/internal/service/patient"
	staffService "github.com/hospitalops/hospital-api/internal/service/staff"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	bedSvc := bedService.NewService(postgres.NewBedRepository(db), appLogger)
	patientSvc := patientService.NewService(postgres.NewPatientRepository(db), appLogger)
	hospitalSvc := hospitalService.NewService(postgres.NewHospitalRepository(db))
	staffSvc := staffService.NewService(postgres.NewStaffRepository(db))
	inventorySvc := inventoryService.NewService(postgres.NewInventoryRepository(db))
	coordinator := assignment.NewCoordinator(bedSvc, patientSvc, appLogger)

	seeder := seed.NewSeeder(hospitalSvc, bedSvc, patientSvc, staffSvc, inventorySvc, coordinator, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seeder.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
}
