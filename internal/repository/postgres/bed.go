package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type bedRepository struct {
	db *sqlx.DB
}

func NewBedRepository(db *sqlx.DB) repository.BedRepository {
	return &bedRepository{db: db}
}

func (r *bedRepository) Create(ctx context.Context, bed *model.Bed) error {
	query := `
		INSERT INTO beds (id, hospital_id, bed_number, room_number, department, bed_type,
			status, patient_id, floor, wing, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	bed.CreatedAt = time.Now()
	bed.UpdatedAt = bed.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		bed.ID, bed.HospitalID, bed.BedNumber, bed.RoomNumber, bed.Department,
		bed.BedType, bed.Status, bed.PatientID, bed.Floor, bed.Wing,
		bed.Version, bed.CreatedAt, bed.UpdatedAt,
	)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (r *bedRepository) Get(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	var bed model.Bed
	err := r.db.GetContext(ctx, &bed, `SELECT * FROM beds WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("bed", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &bed, nil
}

// Update is a compare-and-set: the write only lands when the stored version
// matches the version the caller read. On success the in-memory version is
// advanced to match the row.
func (r *bedRepository) Update(ctx context.Context, bed *model.Bed) error {
	query := `
		UPDATE beds
		SET hospital_id = $1, bed_number = $2, room_number = $3, department = $4,
			bed_type = $5, status = $6, patient_id = $7, floor = $8, wing = $9,
			version = version + 1, updated_at = $10
		WHERE id = $11 AND version = $12
	`
	res, err := r.db.ExecContext(ctx, query,
		bed.HospitalID, bed.BedNumber, bed.RoomNumber, bed.Department,
		bed.BedType, bed.Status, bed.PatientID, bed.Floor, bed.Wing,
		time.Now(), bed.ID, bed.Version,
	)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, bed.ID)
	}
	bed.Version++
	return nil
}

func (r *bedRepository) missingOrConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM beds WHERE id = $1)`, id)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if !exists {
		return apperrors.NotFound("bed", nil)
	}
	return apperrors.Conflict("bed was modified concurrently", nil)
}

func (r *bedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM beds WHERE id = $1`, id)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("bed", nil)
	}
	return nil
}

func (r *bedRepository) List(ctx context.Context) ([]*model.Bed, error) {
	var beds []*model.Bed
	err := r.db.SelectContext(ctx, &beds, `SELECT * FROM beds ORDER BY bed_number`)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return beds, nil
}

func (r *bedRepository) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Bed, error) {
	var beds []*model.Bed
	err := r.db.SelectContext(ctx, &beds,
		`SELECT * FROM beds WHERE hospital_id = $1 ORDER BY bed_number`, hospitalID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return beds, nil
}

func (r *bedRepository) ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Bed, error) {
	var beds []*model.Bed
	err := r.db.SelectContext(ctx, &beds,
		`SELECT * FROM beds WHERE hospital_id = $1 AND department = $2 ORDER BY bed_number`,
		hospitalID, department)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return beds, nil
}

func (r *bedRepository) ListByStatus(ctx context.Context, hospitalID string, status model.BedStatus) ([]*model.Bed, error) {
	var beds []*model.Bed
	err := r.db.SelectContext(ctx, &beds,
		`SELECT * FROM beds WHERE hospital_id = $1 AND status = $2 ORDER BY bed_number`,
		hospitalID, status)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return beds, nil
}
