package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/assignment"
	"github.com/hospitalops/hospital-api/internal/service/bed"
	"github.com/hospitalops/hospital-api/internal/service/hospital"
	"github.com/hospitalops/hospital-api/internal/service/inventory"
	"github.com/hospitalops/hospital-api/internal/service/patient"
	"github.com/hospitalops/hospital-api/internal/service/staff"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

const defaultHospitalID = "HOSP001"

// Seeder populates a fresh database with a working data set. Bed
// assignments go through the coordinator so the seeded state satisfies the
// same consistency rules as live traffic.
type Seeder struct {
	hospitals   hospital.HospitalService
	beds        bed.BedService
	patients    patient.PatientService
	staff       staff.StaffService
	inventory   inventory.InventoryService
	coordinator *assignment.Coordinator
	logger      *logger.Logger
}

func NewSeeder(
	hospitals hospital.HospitalService,
	beds bed.BedService,
	patients patient.PatientService,
	staffSvc staff.StaffService,
	inventorySvc inventory.InventoryService,
	coordinator *assignment.Coordinator,
	logger *logger.Logger,
) *Seeder {
	return &Seeder{
		hospitals:   hospitals,
		beds:        beds,
		patients:    patients,
		staff:       staffSvc,
		inventory:   inventorySvc,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Run seeds the sample data set. It is idempotent: if the sample hospital
// already exists the run is skipped entirely.
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.hospitals.GetHospital(ctx, defaultHospitalID); err == nil {
		s.logger.Info("sample data already present, skipping seed")
		return nil
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if err := s.seedHospital(ctx); err != nil {
		return fmt.Errorf("seed hospital: %w", err)
	}
	bedIDs, err := s.seedBeds(ctx)
	if err != nil {
		return fmt.Errorf("seed beds: %w", err)
	}
	if err := s.seedStaff(ctx); err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}
	if err := s.seedInventory(ctx); err != nil {
		return fmt.Errorf("seed inventory: %w", err)
	}
	if err := s.seedPatients(ctx, bedIDs); err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}

	s.logger.Info("sample data seeded")
	return nil
}

func (s *Seeder) seedHospital(ctx context.Context) error {
	return s.hospitals.CreateHospital(ctx, &model.Hospital{
		HospitalID:   defaultHospitalID,
		Name:         "City General Hospital",
		Address:      "1000 Medical Center Drive",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62701",
		Country:      "USA",
		Phone:        "555-0100",
		Email:        "info@citygeneral.example",
		HospitalType: "general",
		Departments:  []string{"emergency", "icu", "general", "cardiology", "pediatrics"},
		IsActive:     true,
	})
}

type seedBed struct {
	number     string
	room       string
	department string
	bedType    string
	floor      int
	wing       string
}

func (s *Seeder) seedBeds(ctx context.Context) (map[string]uuid.UUID, error) {
	seedBeds := []seedBed{
		{"E001", "101", "emergency", "monitor", 1, "A"},
		{"E002", "101", "emergency", "standard", 1, "A"},
		{"E003", "102", "emergency", "intensive", 1, "A"},
		{"E004", "102", "emergency", "isolation", 1, "A"},
		{"I001", "301", "icu", "intensive", 3, "B"},
		{"I002", "301", "icu", "intensive", 3, "B"},
		{"I003", "302", "icu", "intensive", 3, "B"},
		{"I004", "302", "icu", "intensive", 3, "B"},
		{"G001", "201", "general", "standard", 2, "A"},
		{"G002", "201", "general", "standard", 2, "A"},
		{"G003", "202", "general", "monitor", 2, "A"},
		{"G004", "202", "general", "standard", 2, "A"},
		{"C001", "401", "cardiology", "monitor", 4, "C"},
		{"C002", "401", "cardiology", "monitor", 4, "C"},
		{"P001", "501", "pediatrics", "standard", 5, "C"},
		{"P002", "501", "pediatrics", "standard", 5, "C"},
	}

	ids := make(map[string]uuid.UUID, len(seedBeds))
	for _, sb := range seedBeds {
		b := &model.Bed{
			HospitalID: defaultHospitalID,
			BedNumber:  sb.number,
			RoomNumber: sb.room,
			Department: sb.department,
			BedType:    sb.bedType,
			Floor:      sb.floor,
			Wing:       sb.wing,
		}
		if err := s.beds.CreateBed(ctx, b); err != nil {
			return nil, err
		}
		ids[sb.number] = b.ID
	}

	// One bed per seeded data set sits in maintenance.
	if _, err := s.beds.UpdateBedStatus(ctx, ids["E004"], model.BedStatusMaintenance, nil); err != nil {
		return nil, err
	}

	return ids, nil
}

func (s *Seeder) seedPatients(ctx context.Context, bedIDs map[string]uuid.UUID) error {
	hospitalID := defaultHospitalID
	age := func(n int) *int { return &n }

	patients := []struct {
		patient   *model.Patient
		bedNumber string
	}{
		{
			patient: &model.Patient{
				PatientID: "PAT001", Name: "John Smith", Age: age(45), Gender: "male",
				Phone: "555-0123", Email: "john.smith@example.com",
				Diagnosis: "Acute chest pain, possible myocardial infarction",
				Status:    model.PatientStatusAdmitted, CurrentHospital: &hospitalID,
			},
			bedNumber: "C001",
		},
		{
			patient: &model.Patient{
				PatientID: "PAT002", Name: "Maria Garcia", Age: age(32), Gender: "female",
				Phone: "555-0125", Email: "maria.garcia@example.com",
				Diagnosis: "Severe pneumonia",
				Status:    model.PatientStatusAdmitted, CurrentHospital: &hospitalID,
			},
			bedNumber: "I001",
		},
		{
			patient: &model.Patient{
				PatientID: "PAT003", Name: "Robert Chen", Age: age(67), Gender: "male",
				Phone: "555-0127", Email: "robert.chen@example.com",
				Diagnosis: "Hip fracture after fall",
				Status:    model.PatientStatusAdmitted, CurrentHospital: &hospitalID,
			},
			bedNumber: "G001",
		},
		{
			patient: &model.Patient{
				PatientID: "PAT004", Name: "Emily Johnson", Age: age(8), Gender: "female",
				Phone: "555-0129", Email: "emily.johnson@example.com",
				Diagnosis: "Acute appendicitis",
				Status:    model.PatientStatusAdmitted, CurrentHospital: &hospitalID,
			},
			bedNumber: "P001",
		},
		{
			patient: &model.Patient{
				PatientID: "PAT005", Name: "David Okafor", Age: age(54), Gender: "male",
				Phone: "555-0131", Email: "david.okafor@example.com",
				Diagnosis: "Routine follow-up",
				Status:    model.PatientStatusDischarged,
			},
		},
	}

	for _, p := range patients {
		if err := s.patients.CreatePatient(ctx, p.patient); err != nil {
			return err
		}
		if p.bedNumber == "" {
			continue
		}
		bedID, ok := bedIDs[p.bedNumber]
		if !ok {
			return fmt.Errorf("unknown seed bed %q", p.bedNumber)
		}
		if err := s.coordinator.Assign(ctx, p.patient.PatientID, bedID); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) seedStaff(ctx context.Context) error {
	members := []*model.CreateStaffRequest{
		{StaffID: "STF001", HospitalID: defaultHospitalID, Name: "Dr. Sarah Mitchell", Role: "doctor", Department: "emergency", Email: "sarah.mitchell@citygeneral.example", Phone: "555-0201", Password: "changeme-101"},
		{StaffID: "STF002", HospitalID: defaultHospitalID, Name: "Dr. James Park", Role: "doctor", Department: "cardiology", Email: "james.park@citygeneral.example", Phone: "555-0202", Password: "changeme-102"},
		{StaffID: "STF003", HospitalID: defaultHospitalID, Name: "Nurse Angela Reyes", Role: "nurse", Department: "icu", Email: "angela.reyes@citygeneral.example", Phone: "555-0203", Password: "changeme-103"},
		{StaffID: "STF004", HospitalID: defaultHospitalID, Name: "Nurse Tom Becker", Role: "nurse", Department: "general", Email: "tom.becker@citygeneral.example", Phone: "555-0204", Password: "changeme-104"},
		{StaffID: "STF005", HospitalID: defaultHospitalID, Name: "Dr. Lisa Wong", Role: "doctor", Department: "pediatrics", Email: "lisa.wong@citygeneral.example", Phone: "555-0205", Password: "changeme-105"},
		{StaffID: "STF006", HospitalID: defaultHospitalID, Name: "Admin Dana Cole", Role: "admin", Department: "general", Email: "dana.cole@citygeneral.example", Phone: "555-0206", Password: "changeme-106"},
	}

	for _, m := range members {
		created, err := s.staff.CreateStaff(ctx, m)
		if err != nil {
			return err
		}
		// Most seeded staff start on duty.
		if created.StaffID != "STF006" {
			if _, err := s.staff.UpdateStatus(ctx, created.StaffID, model.StaffStatusOnDuty); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Seeder) seedInventory(ctx context.Context) error {
	expiry := func(days int) *time.Time {
		t := time.Now().AddDate(0, 0, days)
		return &t
	}

	items := []*model.InventoryItem{
		{ItemID: "INV001", HospitalID: defaultHospitalID, Name: "Surgical Gloves", Category: "supplies", Quantity: 500, MinimumStock: 100, UnitPrice: 0.25, Supplier: "MedSupply Co"},
		{ItemID: "INV002", HospitalID: defaultHospitalID, Name: "IV Fluid Bags", Category: "supplies", Quantity: 80, MinimumStock: 100, UnitPrice: 4.50, Supplier: "MedSupply Co"},
		{ItemID: "INV003", HospitalID: defaultHospitalID, Name: "Amoxicillin 500mg", Category: "medication", Quantity: 240, MinimumStock: 50, UnitPrice: 0.85, ExpiryDate: expiry(20), Supplier: "PharmaDirect"},
		{ItemID: "INV004", HospitalID: defaultHospitalID, Name: "Aspirin 81mg", Category: "medication", Quantity: 600, MinimumStock: 100, UnitPrice: 0.10, ExpiryDate: expiry(365), Supplier: "PharmaDirect"},
		{ItemID: "INV005", HospitalID: defaultHospitalID, Name: "ECG Electrodes", Category: "equipment", Quantity: 300, MinimumStock: 75, UnitPrice: 1.20, Supplier: "CardioTech"},
	}

	for _, item := range items {
		if err := s.inventory.CreateItem(ctx, item); err != nil {
			return err
		}
	}

	return nil
}
