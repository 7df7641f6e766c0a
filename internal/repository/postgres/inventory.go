package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, item_id, hospital_id, name, category, quantity,
			minimum_stock, unit_price, expiry_date, supplier, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ItemID, item.HospitalID, item.Name, item.Category,
		item.Quantity, item.MinimumStock, item.UnitPrice, item.ExpiryDate,
		item.Supplier, item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.AlreadyExists("inventory item", item.ItemID)
		}
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (r *inventoryRepository) Get(ctx context.Context, itemID string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.GetContext(ctx, &item, `SELECT * FROM inventory_items WHERE item_id = $1`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("inventory item", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, quantity = $3, minimum_stock = $4, unit_price = $5,
			expiry_date = $6, supplier = $7, version = version + 1, updated_at = $8
		WHERE item_id = $9 AND version = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		item.Name, item.Category, item.Quantity, item.MinimumStock, item.UnitPrice,
		item.ExpiryDate, item.Supplier, time.Now(), item.ItemID, item.Version,
	)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM inventory_items WHERE item_id = $1)`, item.ItemID); err != nil {
			return apperrors.StoreUnavailable(err)
		}
		if !exists {
			return apperrors.NotFound("inventory item", nil)
		}
		return apperrors.Conflict("inventory item was modified concurrently", nil)
	}
	item.Version++
	return nil
}

func (r *inventoryRepository) ListByHospital(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error) {
	var items []*model.InventoryItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT * FROM inventory_items WHERE hospital_id = $1 ORDER BY item_id`, hospitalID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return items, nil
}
