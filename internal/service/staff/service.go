package staff

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type StaffService interface {
	CreateStaff(ctx context.Context, req *model.CreateStaffRequest) (*model.Staff, error)
	GetStaff(ctx context.Context, staffID string) (*model.Staff, error)
	UpdateStatus(ctx context.Context, staffID string, status model.StaffStatus) (*model.Staff, error)
	ListStaff(ctx context.Context, hospitalID string) ([]*model.Staff, error)
	ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Staff, error)
}

type Service struct {
	repo repository.StaffRepository
}

func NewService(repo repository.StaffRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateStaff(ctx context.Context, req *model.CreateStaffRequest) (*model.Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	staff := &model.Staff{
		Base:          model.Base{ID: uuid.New()},
		StaffID:       req.StaffID,
		HospitalID:    req.HospitalID,
		Name:          req.Name,
		Role:          req.Role,
		Department:    req.Department,
		Email:         req.Email,
		Phone:         req.Phone,
		CurrentStatus: model.StaffStatusOffDuty,
		PasswordHash:  string(hash),
	}

	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *Service) GetStaff(ctx context.Context, staffID string) (*model.Staff, error) {
	return s.repo.Get(ctx, staffID)
}

func (s *Service) UpdateStatus(ctx context.Context, staffID string, status model.StaffStatus) (*model.Staff, error) {
	staff, err := s.repo.Get(ctx, staffID)
	if err != nil {
		return nil, err
	}
	staff.CurrentStatus = status
	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *Service) ListStaff(ctx context.Context, hospitalID string) ([]*model.Staff, error) {
	return s.repo.ListByHospital(ctx, hospitalID)
}

func (s *Service) ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Staff, error) {
	return s.repo.ListByDepartment(ctx, hospitalID, department)
}
