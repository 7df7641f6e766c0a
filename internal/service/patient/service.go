package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

// PatientService owns patient records, their bed-assignment pointer and the
// append-only admission history. AssignBed and RemoveBed are sub-steps of the
// assignment coordinator and are not meant to be called standalone; doing so
// can desynchronize patient state from the bed registry.
type PatientService interface {
	CreatePatient(ctx context.Context, patient *model.Patient) error
	GetPatient(ctx context.Context, patientID string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, patientID string, req *model.UpdatePatientRequest) (*model.Patient, error)
	ListPatients(ctx context.Context, hospitalID string) ([]*model.Patient, error)
	SearchPatients(ctx context.Context, term string) ([]*model.Patient, error)
	AssignBed(ctx context.Context, patientID string, info model.BedInfo) error
	RemoveBed(ctx context.Context, patientID string) error
	DischargePatient(ctx context.Context, patientID string) (*model.Patient, error)
	TransferPatient(ctx context.Context, patientID, newHospitalID, reason string) (*model.Patient, error)
	GetStatistics(ctx context.Context, hospitalID string) (*model.PatientStatistics, error)
}

type Service struct {
	repo   repository.PatientRepository
	logger *logger.Logger
}

func NewService(repo repository.PatientRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreatePatient(ctx context.Context, patient *model.Patient) error {
	if patient.PatientID == "" {
		return apperrors.Validation("patient ID is required", nil)
	}
	if patient.Name == "" {
		return apperrors.Validation("patient name is required", nil)
	}

	patient.ID = uuid.New()
	patient.Version = 0
	patient.IsInBed = false
	patient.BedInfo = model.BedInfo{}
	if patient.Status == "" {
		patient.Status = model.PatientStatusAdmitted
	}
	if patient.AdmissionHistory == nil {
		patient.AdmissionHistory = []model.AdmissionEntry{}
	}

	// An admitted patient starts with one open admission-history entry.
	if patient.Status == model.PatientStatusAdmitted && patient.CurrentHospital != nil {
		patient.AdmissionHistory = append(patient.AdmissionHistory, model.AdmissionEntry{
			HospitalID:    *patient.CurrentHospital,
			AdmissionDate: time.Now(),
			Status:        model.PatientStatusAdmitted,
			Reason:        patient.Diagnosis,
		})
	}

	return s.repo.Create(ctx, patient)
}

func (s *Service) GetPatient(ctx context.Context, patientID string) (*model.Patient, error) {
	return s.repo.Get(ctx, patientID)
}

func (s *Service) UpdatePatient(ctx context.Context, patientID string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Age != nil {
		patient.Age = req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Diagnosis != nil {
		patient.Diagnosis = *req.Diagnosis
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context, hospitalID string) ([]*model.Patient, error) {
	if hospitalID == "" {
		return s.repo.List(ctx)
	}
	return s.repo.ListByHospital(ctx, hospitalID)
}

func (s *Service) SearchPatients(ctx context.Context, term string) ([]*model.Patient, error) {
	return s.repo.Search(ctx, term)
}

// AssignBed records the patient-side half of a bed assignment. The bed
// record itself is untouched; the assignment coordinator sequences both.
func (s *Service) AssignBed(ctx context.Context, patientID string, info model.BedInfo) error {
	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return err
	}
	if patient.Status != model.PatientStatusAdmitted {
		return apperrors.Conflict("patient is not admitted", nil)
	}

	patient.IsInBed = true
	patient.BedInfo = info
	return s.repo.Update(ctx, patient)
}

// RemoveBed clears the patient-side bed assignment.
func (s *Service) RemoveBed(ctx context.Context, patientID string) error {
	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return err
	}

	patient.IsInBed = false
	patient.BedInfo = model.BedInfo{}
	return s.repo.Update(ctx, patient)
}

// DischargePatient closes the open admission-history entry and clears the
// patient's hospital and bed fields. Discharging an already-discharged
// patient is a reported error, never a silent no-op.
func (s *Service) DischargePatient(ctx context.Context, patientID string) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.Status == model.PatientStatusDischarged {
		return nil, apperrors.Conflict("patient is already discharged", nil)
	}

	now := time.Now()
	if entry := patient.OpenAdmission(); entry != nil {
		entry.DischargeDate = &now
		entry.Status = model.PatientStatusDischarged
	}

	patient.Status = model.PatientStatusDischarged
	patient.CurrentHospital = nil
	patient.IsInBed = false
	patient.BedInfo = model.BedInfo{}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// TransferPatient closes the open admission-history entry as transferred,
// appends a new open entry for the destination hospital and drops any bed
// assignment. Re-assignment at the destination is a separate operation.
func (s *Service) TransferPatient(ctx context.Context, patientID, newHospitalID, reason string) (*model.Patient, error) {
	if newHospitalID == "" {
		return nil, apperrors.Validation("new hospital ID is required", nil)
	}

	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if entry := patient.OpenAdmission(); entry != nil {
		entry.DischargeDate = &now
		entry.Status = model.PatientStatusTransferred
	}

	patient.AdmissionHistory = append(patient.AdmissionHistory, model.AdmissionEntry{
		HospitalID:    newHospitalID,
		AdmissionDate: now,
		Status:        model.PatientStatusAdmitted,
		Reason:        reason,
	})
	patient.Status = model.PatientStatusAdmitted
	patient.CurrentHospital = &newHospitalID
	patient.IsInBed = false
	patient.BedInfo = model.BedInfo{}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetStatistics scans current patient state, mirroring the bed registry's
// approach. Discharged patients are attributed to a hospital through their
// admission history.
func (s *Service) GetStatistics(ctx context.Context, hospitalID string) (*model.PatientStatistics, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.PatientStatistics{
		DepartmentDistribution: make(map[string]int),
	}
	for _, p := range patients {
		if hospitalID != "" && !patientBelongsTo(p, hospitalID) {
			continue
		}
		stats.TotalPatients++
		switch p.Status {
		case model.PatientStatusAdmitted:
			stats.AdmittedPatients++
		case model.PatientStatusDischarged:
			stats.DischargedPatients++
		}
		if p.IsInBed {
			stats.PatientsInBeds++
			if p.BedInfo.Department != nil {
				stats.DepartmentDistribution[*p.BedInfo.Department]++
			}
		} else if p.Status == model.PatientStatusAdmitted {
			stats.PatientsWithoutBeds++
		}
	}
	return stats, nil
}

func patientBelongsTo(p *model.Patient, hospitalID string) bool {
	if p.CurrentHospital != nil && *p.CurrentHospital == hospitalID {
		return true
	}
	for _, entry := range p.AdmissionHistory {
		if entry.HospitalID == hospitalID {
			return true
		}
	}
	return false
}
