package hospital

import (
	"context"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type HospitalService interface {
	CreateHospital(ctx context.Context, hospital *model.Hospital) error
	GetHospital(ctx context.Context, hospitalID string) (*model.Hospital, error)
	UpdateHospital(ctx context.Context, hospitalID string, req *model.UpdateHospitalRequest) (*model.Hospital, error)
	DeactivateHospital(ctx context.Context, hospitalID string) error
	ListHospitals(ctx context.Context) ([]*model.Hospital, error)
	SearchHospitals(ctx context.Context, term string) ([]*model.Hospital, error)
}

type Service struct {
	repo repository.HospitalRepository
}

func NewService(repo repository.HospitalRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateHospital(ctx context.Context, hospital *model.Hospital) error {
	if hospital.HospitalID == "" {
		return apperrors.Validation("hospital ID is required", nil)
	}
	if hospital.Name == "" {
		return apperrors.Validation("hospital name is required", nil)
	}

	hospital.ID = uuid.New()
	hospital.Version = 0
	hospital.IsActive = true
	if hospital.Country == "" {
		hospital.Country = "USA"
	}
	if hospital.HospitalType == "" {
		hospital.HospitalType = "general"
	}

	return s.repo.Create(ctx, hospital)
}

func (s *Service) GetHospital(ctx context.Context, hospitalID string) (*model.Hospital, error) {
	return s.repo.Get(ctx, hospitalID)
}

func (s *Service) UpdateHospital(ctx context.Context, hospitalID string, req *model.UpdateHospitalRequest) (*model.Hospital, error) {
	hospital, err := s.repo.Get(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}
	if req.City != nil {
		hospital.City = *req.City
	}
	if req.State != nil {
		hospital.State = *req.State
	}
	if req.ZipCode != nil {
		hospital.ZipCode = *req.ZipCode
	}
	if req.Phone != nil {
		hospital.Phone = *req.Phone
	}
	if req.Email != nil {
		hospital.Email = *req.Email
	}
	if req.HospitalType != nil {
		hospital.HospitalType = *req.HospitalType
	}
	if req.Departments != nil {
		hospital.Departments = *req.Departments
	}

	if err := s.repo.Update(ctx, hospital); err != nil {
		return nil, err
	}
	return hospital, nil
}

func (s *Service) DeactivateHospital(ctx context.Context, hospitalID string) error {
	hospital, err := s.repo.Get(ctx, hospitalID)
	if err != nil {
		return err
	}
	if !hospital.IsActive {
		return apperrors.Conflict("hospital is already deactivated", nil)
	}
	hospital.IsActive = false
	return s.repo.Update(ctx, hospital)
}

func (s *Service) ListHospitals(ctx context.Context) ([]*model.Hospital, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchHospitals(ctx context.Context, term string) ([]*model.Hospital, error) {
	if term == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, term)
}
