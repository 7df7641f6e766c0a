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

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (id, staff_id, hospital_id, name, role, department, email, phone,
			current_status, password_hash, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		staff.ID, staff.StaffID, staff.HospitalID, staff.Name, staff.Role,
		staff.Department, staff.Email, staff.Phone, staff.CurrentStatus,
		staff.PasswordHash, staff.Version, staff.CreatedAt, staff.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.AlreadyExists("staff", staff.StaffID)
		}
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (r *staffRepository) Get(ctx context.Context, staffID string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.GetContext(ctx, &staff, `SELECT * FROM staff WHERE staff_id = $1`, staffID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("staff", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &staff, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.GetContext(ctx, &staff, `SELECT * FROM staff WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("staff", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &staff, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *model.Staff) error {
	query := `
		UPDATE staff
		SET name = $1, role = $2, department = $3, email = $4, phone = $5,
			current_status = $6, password_hash = $7, version = version + 1, updated_at = $8
		WHERE staff_id = $9 AND version = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		staff.Name, staff.Role, staff.Department, staff.Email, staff.Phone,
		staff.CurrentStatus, staff.PasswordHash, time.Now(), staff.StaffID, staff.Version,
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
			`SELECT EXISTS(SELECT 1 FROM staff WHERE staff_id = $1)`, staff.StaffID); err != nil {
			return apperrors.StoreUnavailable(err)
		}
		if !exists {
			return apperrors.NotFound("staff", nil)
		}
		return apperrors.Conflict("staff record was modified concurrently", nil)
	}
	staff.Version++
	return nil
}

func (r *staffRepository) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Staff, error) {
	var staff []*model.Staff
	err := r.db.SelectContext(ctx, &staff,
		`SELECT * FROM staff WHERE hospital_id = $1 ORDER BY staff_id`, hospitalID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return staff, nil
}

func (r *staffRepository) ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Staff, error) {
	var staff []*model.Staff
	err := r.db.SelectContext(ctx, &staff,
		`SELECT * FROM staff WHERE hospital_id = $1 AND department = $2 ORDER BY staff_id`,
		hospitalID, department)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return staff, nil
}
