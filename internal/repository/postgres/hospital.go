package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type hospitalRepository struct {
	db *sqlx.DB
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	if err := marshalHospitalJSON(hospital); err != nil {
		return apperrors.Internal(err)
	}

	query := `
		INSERT INTO hospitals (id, hospital_id, name, address, city, state, zip_code,
			country, phone, email, hospital_type, departments, is_active,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = hospital.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID, hospital.HospitalID, hospital.Name, hospital.Address,
		hospital.City, hospital.State, hospital.ZipCode, hospital.Country,
		hospital.Phone, hospital.Email, hospital.HospitalType,
		hospital.DepartmentsJSON, hospital.IsActive,
		hospital.Version, hospital.CreatedAt, hospital.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.AlreadyExists("hospital", hospital.HospitalID)
		}
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, hospitalID string) (*model.Hospital, error) {
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, `SELECT * FROM hospitals WHERE hospital_id = $1`, hospitalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if err := unmarshalHospitalJSON(&hospital); err != nil {
		return nil, apperrors.Internal(err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	if err := marshalHospitalJSON(hospital); err != nil {
		return apperrors.Internal(err)
	}

	query := `
		UPDATE hospitals
		SET name = $1, address = $2, city = $3, state = $4, zip_code = $5, phone = $6,
			email = $7, hospital_type = $8, departments = $9, is_active = $10,
			version = version + 1, updated_at = $11
		WHERE hospital_id = $12 AND version = $13
	`
	res, err := r.db.ExecContext(ctx, query,
		hospital.Name, hospital.Address, hospital.City, hospital.State,
		hospital.ZipCode, hospital.Phone, hospital.Email, hospital.HospitalType,
		hospital.DepartmentsJSON, hospital.IsActive,
		time.Now(), hospital.HospitalID, hospital.Version,
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
			`SELECT EXISTS(SELECT 1 FROM hospitals WHERE hospital_id = $1)`, hospital.HospitalID); err != nil {
			return apperrors.StoreUnavailable(err)
		}
		if !exists {
			return apperrors.NotFound("hospital", nil)
		}
		return apperrors.Conflict("hospital was modified concurrently", nil)
	}
	hospital.Version++
	return nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	return r.selectHospitals(ctx, `SELECT * FROM hospitals ORDER BY hospital_id`)
}

func (r *hospitalRepository) Search(ctx context.Context, term string) ([]*model.Hospital, error) {
	pattern := "%" + term + "%"
	return r.selectHospitals(ctx,
		`SELECT * FROM hospitals WHERE name ILIKE $1 OR city ILIKE $1 ORDER BY hospital_id`, pattern)
}

func (r *hospitalRepository) selectHospitals(ctx context.Context, query string, args ...interface{}) ([]*model.Hospital, error) {
	var hospitals []*model.Hospital
	err := r.db.SelectContext(ctx, &hospitals, query, args...)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	for _, h := range hospitals {
		if err := unmarshalHospitalJSON(h); err != nil {
			return nil, apperrors.Internal(err)
		}
	}
	return hospitals, nil
}

func marshalHospitalJSON(hospital *model.Hospital) error {
	if hospital.Departments == nil {
		hospital.Departments = []string{}
	}
	data, err := json.Marshal(hospital.Departments)
	if err != nil {
		return err
	}
	hospital.DepartmentsJSON = string(data)
	return nil
}

func unmarshalHospitalJSON(hospital *model.Hospital) error {
	if hospital.DepartmentsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(hospital.DepartmentsJSON), &hospital.Departments)
}
