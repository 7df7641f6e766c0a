package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	if err := marshalPatientJSON(patient); err != nil {
		return apperrors.Internal(err)
	}

	query := `
		INSERT INTO patients (id, patient_id, name, age, gender, phone, email, diagnosis,
			status, is_in_bed, bed_info, current_hospital, admission_history,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		patient.ID, patient.PatientID, patient.Name, patient.Age, patient.Gender,
		patient.Phone, patient.Email, patient.Diagnosis, patient.Status,
		patient.IsInBed, patient.BedInfoJSON, patient.CurrentHospital,
		patient.AdmissionHistoryJSON, patient.Version, patient.CreatedAt, patient.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.AlreadyExists("patient", patient.PatientID)
		}
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, patientID string) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, `SELECT * FROM patients WHERE patient_id = $1`, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if err := unmarshalPatientJSON(&patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return &patient, nil
}

// Update is a compare-and-set against the record version, same discipline
// as the bed repository.
func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	if err := marshalPatientJSON(patient); err != nil {
		return apperrors.Internal(err)
	}

	query := `
		UPDATE patients
		SET name = $1, age = $2, gender = $3, phone = $4, email = $5, diagnosis = $6,
			status = $7, is_in_bed = $8, bed_info = $9, current_hospital = $10,
			admission_history = $11, version = version + 1, updated_at = $12
		WHERE patient_id = $13 AND version = $14
	`
	res, err := r.db.ExecContext(ctx, query,
		patient.Name, patient.Age, patient.Gender, patient.Phone, patient.Email,
		patient.Diagnosis, patient.Status, patient.IsInBed, patient.BedInfoJSON,
		patient.CurrentHospital, patient.AdmissionHistoryJSON,
		time.Now(), patient.PatientID, patient.Version,
	)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, patient.PatientID)
	}
	patient.Version++
	return nil
}

func (r *patientRepository) missingOrConflict(ctx context.Context, patientID string) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM patients WHERE patient_id = $1)`, patientID)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if !exists {
		return apperrors.NotFound("patient", nil)
	}
	return apperrors.Conflict("patient was modified concurrently", nil)
}

func (r *patientRepository) Delete(ctx context.Context, patientID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE patient_id = $1`, patientID)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	return r.selectPatients(ctx, `SELECT * FROM patients ORDER BY patient_id`)
}

func (r *patientRepository) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Patient, error) {
	return r.selectPatients(ctx,
		`SELECT * FROM patients WHERE current_hospital = $1 ORDER BY patient_id`, hospitalID)
}

func (r *patientRepository) ListInBeds(ctx context.Context) ([]*model.Patient, error) {
	return r.selectPatients(ctx, `SELECT * FROM patients WHERE is_in_bed = true ORDER BY patient_id`)
}

func (r *patientRepository) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	pattern := "%" + term + "%"
	return r.selectPatients(ctx,
		`SELECT * FROM patients WHERE name ILIKE $1 OR patient_id ILIKE $1 ORDER BY patient_id`, pattern)
}

func (r *patientRepository) selectPatients(ctx context.Context, query string, args ...interface{}) ([]*model.Patient, error) {
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	for _, p := range patients {
		if err := unmarshalPatientJSON(p); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("patient %s: %w", p.PatientID, err))
		}
	}
	return patients, nil
}

func marshalPatientJSON(patient *model.Patient) error {
	bedInfo, err := json.Marshal(patient.BedInfo)
	if err != nil {
		return err
	}
	patient.BedInfoJSON = string(bedInfo)

	if patient.AdmissionHistory == nil {
		patient.AdmissionHistory = []model.AdmissionEntry{}
	}
	history, err := json.Marshal(patient.AdmissionHistory)
	if err != nil {
		return err
	}
	patient.AdmissionHistoryJSON = string(history)
	return nil
}

func unmarshalPatientJSON(patient *model.Patient) error {
	if patient.BedInfoJSON != "" {
		if err := json.Unmarshal([]byte(patient.BedInfoJSON), &patient.BedInfo); err != nil {
			return err
		}
	}
	if patient.AdmissionHistoryJSON != "" {
		if err := json.Unmarshal([]byte(patient.AdmissionHistoryJSON), &patient.AdmissionHistory); err != nil {
			return err
		}
	}
	return nil
}
