package bed

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

// BedService owns bed records and their status transitions. Status and
// patient-pointer changes go through UpdateBedStatus only; UpdateBedDetails
// is restricted to descriptive fields.
type BedService interface {
	CreateBed(ctx context.Context, bed *model.Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error)
	ListBeds(ctx context.Context, hospitalID string) ([]*model.Bed, error)
	ListBedsByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Bed, error)
	ListBedsByStatus(ctx context.Context, hospitalID string, status model.BedStatus) ([]*model.Bed, error)
	UpdateBedStatus(ctx context.Context, id uuid.UUID, status model.BedStatus, patientID *string) (*model.Bed, error)
	UpdateBedDetails(ctx context.Context, id uuid.UUID, req *model.UpdateBedDetailsRequest) (*model.Bed, error)
	DeleteBed(ctx context.Context, id uuid.UUID) error
	GetStatistics(ctx context.Context, hospitalID string) (*model.BedStatistics, error)
}

type Service struct {
	repo   repository.BedRepository
	logger *logger.Logger
}

func NewService(repo repository.BedRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateBed(ctx context.Context, bed *model.Bed) error {
	if bed.BedNumber == "" {
		return apperrors.Validation("bed number is required", nil)
	}
	if bed.RoomNumber == "" {
		return apperrors.Validation("room number is required", nil)
	}
	if bed.Department == "" {
		return apperrors.Validation("department is required", nil)
	}
	if bed.HospitalID == "" {
		return apperrors.Validation("hospital ID is required", nil)
	}

	bed.ID = uuid.New()
	bed.Status = model.BedStatusAvailable
	bed.PatientID = nil
	bed.Version = 0
	if bed.BedType == "" {
		bed.BedType = "standard"
	}
	if bed.Wing == "" {
		bed.Wing = "Main"
	}
	if bed.Floor == 0 {
		bed.Floor = 1
	}

	// Duplicate bed numbers are legal but usually a data-entry mistake.
	s.warnOnDuplicateNumber(ctx, bed)

	return s.repo.Create(ctx, bed)
}

func (s *Service) warnOnDuplicateNumber(ctx context.Context, bed *model.Bed) {
	existing, err := s.repo.ListByHospital(ctx, bed.HospitalID)
	if err != nil {
		return
	}
	for _, b := range existing {
		if b.BedNumber == bed.BedNumber {
			s.logger.Warn("duplicate bed number in hospital",
				"hospital_id", bed.HospitalID, "bed_number", bed.BedNumber)
			return
		}
	}
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListBeds(ctx context.Context, hospitalID string) ([]*model.Bed, error) {
	if hospitalID == "" {
		return s.repo.List(ctx)
	}
	return s.repo.ListByHospital(ctx, hospitalID)
}

func (s *Service) ListBedsByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Bed, error) {
	return s.repo.ListByDepartment(ctx, hospitalID, department)
}

func (s *Service) ListBedsByStatus(ctx context.Context, hospitalID string, status model.BedStatus) ([]*model.Bed, error) {
	return s.repo.ListByStatus(ctx, hospitalID, status)
}

// UpdateBedStatus enforces the bed status transition table:
//
//	available   -> occupied     requires a patient id
//	occupied    -> available    clears the patient pointer
//	*           -> maintenance  clears the patient pointer unconditionally
//	maintenance -> available    requires no patient pointer
//
// Every other requested transition is rejected. The write is a
// compare-and-set; concurrent updates surface as Conflict.
func (s *Service) UpdateBedStatus(ctx context.Context, id uuid.UUID, status model.BedStatus, patientID *string) (*model.Bed, error) {
	bed, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case bed.Status == model.BedStatusAvailable && status == model.BedStatusOccupied:
		if patientID == nil || *patientID == "" {
			return nil, apperrors.Validation("patient ID is required to occupy a bed", nil)
		}
		bed.PatientID = patientID

	case bed.Status == model.BedStatusOccupied && status == model.BedStatusAvailable:
		bed.PatientID = nil

	case status == model.BedStatusMaintenance:
		// A bed under maintenance cannot hold a patient.
		bed.PatientID = nil

	case bed.Status == model.BedStatusMaintenance && status == model.BedStatusAvailable:
		if bed.PatientID != nil {
			return nil, apperrors.InvalidTransition(string(bed.Status), string(status))
		}

	default:
		return nil, apperrors.InvalidTransition(string(bed.Status), string(status))
	}

	bed.Status = status
	if err := s.repo.Update(ctx, bed); err != nil {
		return nil, err
	}
	return bed, nil
}

// UpdateBedDetails updates descriptive fields only. Status and patient
// pointer changes must go through UpdateBedStatus.
func (s *Service) UpdateBedDetails(ctx context.Context, id uuid.UUID, req *model.UpdateBedDetailsRequest) (*model.Bed, error) {
	bed, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BedNumber != nil {
		bed.BedNumber = *req.BedNumber
	}
	if req.RoomNumber != nil {
		bed.RoomNumber = *req.RoomNumber
	}
	if req.Department != nil {
		bed.Department = *req.Department
	}
	if req.BedType != nil {
		bed.BedType = *req.BedType
	}
	if req.Floor != nil {
		bed.Floor = *req.Floor
	}
	if req.Wing != nil {
		bed.Wing = *req.Wing
	}

	if err := s.repo.Update(ctx, bed); err != nil {
		return nil, err
	}
	return bed, nil
}

func (s *Service) DeleteBed(ctx context.Context, id uuid.UUID) error {
	bed, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if bed.Status == model.BedStatusOccupied {
		return apperrors.Conflict("cannot delete an occupied bed", nil)
	}
	return s.repo.Delete(ctx, id)
}

// GetStatistics computes counts by scanning current bed state. Hospital-scale
// cardinalities are small enough that no cached counters are kept.
func (s *Service) GetStatistics(ctx context.Context, hospitalID string) (*model.BedStatistics, error) {
	beds, err := s.ListBeds(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	stats := &model.BedStatistics{
		DepartmentStats: make(map[string]model.DepartmentBedStats),
	}
	for _, b := range beds {
		stats.TotalBeds++
		dept := stats.DepartmentStats[b.Department]
		dept.Total++
		switch b.Status {
		case model.BedStatusAvailable:
			stats.AvailableBeds++
			dept.Available++
		case model.BedStatusOccupied:
			stats.OccupiedBeds++
			dept.Occupied++
		case model.BedStatusMaintenance:
			stats.MaintenanceBeds++
			dept.Maintenance++
		}
		stats.DepartmentStats[b.Department] = dept
	}

	if stats.TotalBeds > 0 {
		rate := float64(stats.OccupiedBeds) / float64(stats.TotalBeds) * 100
		stats.OccupancyRate = math.Round(rate*100) / 100
	}
	return stats, nil
}
