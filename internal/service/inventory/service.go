package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type InventoryService interface {
	CreateItem(ctx context.Context, item *model.InventoryItem) error
	GetItem(ctx context.Context, itemID string) (*model.InventoryItem, error)
	AdjustStock(ctx context.Context, itemID string, delta int) (*model.InventoryItem, error)
	ListItems(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error)
	ListLowStock(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error)
}

type Service struct {
	repo repository.InventoryRepository
}

func NewService(repo repository.InventoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	if item.ItemID == "" {
		return apperrors.Validation("item ID is required", nil)
	}
	if item.Name == "" {
		return apperrors.Validation("item name is required", nil)
	}
	if item.Quantity < 0 {
		return apperrors.Validation("quantity cannot be negative", nil)
	}

	item.ID = uuid.New()
	item.Version = 0
	return s.repo.Create(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, itemID string) (*model.InventoryItem, error) {
	return s.repo.Get(ctx, itemID)
}

// AdjustStock applies a quantity delta: positive restocks, negative
// consumes. Consuming below zero is rejected.
func (s *Service) AdjustStock(ctx context.Context, itemID string, delta int) (*model.InventoryItem, error) {
	item, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Quantity+delta < 0 {
		return nil, apperrors.Conflict("insufficient stock", nil)
	}
	item.Quantity += delta
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) ListItems(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error) {
	return s.repo.ListByHospital(ctx, hospitalID)
}

func (s *Service) ListLowStock(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error) {
	items, err := s.repo.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	low := make([]*model.InventoryItem, 0)
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}
