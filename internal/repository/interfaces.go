package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
)

// BedRepository owns bed records. Update is a compare-and-set against the
// record's version and returns Conflict on mismatch.
type BedRepository interface {
	Create(ctx context.Context, bed *model.Bed) error
	Get(ctx context.Context, id uuid.UUID) (*model.Bed, error)
	Update(ctx context.Context, bed *model.Bed) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Bed, error)
	ListByHospital(ctx context.Context, hospitalID string) ([]*model.Bed, error)
	ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Bed, error)
	ListByStatus(ctx context.Context, hospitalID string, status model.BedStatus) ([]*model.Bed, error)
}

// PatientRepository owns patient records, keyed by the externally assigned
// patient_id. Update follows the same compare-and-set discipline as beds.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, patientID string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, patientID string) error
	List(ctx context.Context) ([]*model.Patient, error)
	ListByHospital(ctx context.Context, hospitalID string) ([]*model.Patient, error)
	ListInBeds(ctx context.Context) ([]*model.Patient, error)
	Search(ctx context.Context, term string) ([]*model.Patient, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, hospital *model.Hospital) error
	Get(ctx context.Context, hospitalID string) (*model.Hospital, error)
	Update(ctx context.Context, hospital *model.Hospital) error
	List(ctx context.Context) ([]*model.Hospital, error)
	Search(ctx context.Context, term string) ([]*model.Hospital, error)
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	Get(ctx context.Context, staffID string) (*model.Staff, error)
	GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	ListByHospital(ctx context.Context, hospitalID string) ([]*model.Staff, error)
	ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Staff, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Get(ctx context.Context, itemID string) (*model.InventoryItem, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	ListByHospital(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
