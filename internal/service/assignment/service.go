package assignment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/bed"
	"github.com/hospitalops/hospital-api/internal/service/patient"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

// defaultMaxRetries bounds automatic retries of version conflicts before the
// Conflict is surfaced to the caller.
const defaultMaxRetries = 3

// Coordinator runs the cross-entity operations that touch both the bed and
// patient registries. The two writes are not atomic; correctness relies on a
// fixed step order (bed before patient, so the bed is always the source of
// truth for reconciliation) and on the Reconcile sweep repairing any drift a
// partial failure leaves behind.
type Coordinator struct {
	beds       bed.BedService
	patients   patient.PatientService
	logger     *logger.Logger
	maxRetries int
}

func NewCoordinator(beds bed.BedService, patients patient.PatientService, logger *logger.Logger) *Coordinator {
	return &Coordinator{
		beds:       beds,
		patients:   patients,
		logger:     logger,
		maxRetries: defaultMaxRetries,
	}
}

// Assign places an admitted patient into an available bed. The bed write is
// the authoritative first step. The patient-side write is retried on version
// conflicts; if it still fails, the bed is reverted to available, and a
// failed revert is surfaced as PartialFailure for the reconciliation sweep.
func (c *Coordinator) Assign(ctx context.Context, patientID string, bedID uuid.UUID) error {
	p, err := c.patients.GetPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if p.Status != model.PatientStatusAdmitted {
		return apperrors.Conflict("patient is not admitted", nil)
	}
	if p.IsInBed {
		return apperrors.Conflict("patient already has a bed assignment", nil)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		b, err := c.beds.GetBed(ctx, bedID)
		if err != nil {
			return err
		}
		if b.Status != model.BedStatusAvailable {
			return apperrors.Conflict(fmt.Sprintf("bed %s is not available", b.BedNumber), nil)
		}

		// Step 1: authoritative state change.
		occupied, err := c.beds.UpdateBedStatus(ctx, bedID, model.BedStatusOccupied, &patientID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrConflict) {
				lastErr = err
				continue
			}
			return err
		}

		// Step 2: patient-side mirror.
		if err := c.assignPatientSide(ctx, patientID, snapshotBedInfo(occupied)); err != nil {
			return c.compensateAssign(ctx, bedID, patientID, err)
		}
		return nil
	}
	return lastErr
}

func (c *Coordinator) assignPatientSide(ctx context.Context, patientID string, info model.BedInfo) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.patients.AssignBed(ctx, patientID, info)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return lastErr
}

func (c *Coordinator) compensateAssign(ctx context.Context, bedID uuid.UUID, patientID string, cause error) error {
	c.logger.Warn("patient-side assignment failed, reverting bed",
		"bed_id", bedID.String(), "patient_id", patientID)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		_, err := c.beds.UpdateBedStatus(ctx, bedID, model.BedStatusAvailable, nil)
		if err == nil {
			return cause
		}
		if !retryable(err) {
			break
		}
	}
	return apperrors.PartialFailure(
		fmt.Sprintf("bed %s is marked occupied but patient %s has no assignment", bedID, patientID),
		cause)
}

// Discharge releases the patient's bed first, then discharges the patient.
// A patient without a bed assignment is rejected with NotAssigned; callers
// discharge such patients through the patient registry directly.
func (c *Coordinator) Discharge(ctx context.Context, patientID string) error {
	p, err := c.patients.GetPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if !p.IsInBed || !p.BedInfo.Assigned() {
		return apperrors.NotAssigned(patientID)
	}
	bedID := *p.BedInfo.BedID

	if err := c.releaseBed(ctx, bedID); err != nil {
		return err
	}

	// Bed freed; a failure from here on leaves the patient still pointing at
	// a released bed, which only the sweep can repair.
	if _, err := c.dischargePatientSide(ctx, patientID); err != nil {
		return apperrors.PartialFailure(
			fmt.Sprintf("bed %s released but patient %s discharge failed", bedID, patientID), err)
	}
	return nil
}

func (c *Coordinator) dischargePatientSide(ctx context.Context, patientID string) (*model.Patient, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		p, err := c.patients.DischargePatient(ctx, patientID)
		if err == nil {
			return p, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

// Transfer moves a patient to another hospital, releasing any held bed first
// with the same ordering discipline as Discharge.
func (c *Coordinator) Transfer(ctx context.Context, patientID, newHospitalID, reason string) error {
	p, err := c.patients.GetPatient(ctx, patientID)
	if err != nil {
		return err
	}

	heldBed := p.IsInBed && p.BedInfo.Assigned()
	if heldBed {
		if err := c.releaseBed(ctx, *p.BedInfo.BedID); err != nil {
			return err
		}
	}

	if err := c.transferPatientSide(ctx, patientID, newHospitalID, reason); err != nil {
		if heldBed {
			return apperrors.PartialFailure(
				fmt.Sprintf("bed released but transfer of patient %s failed", patientID), err)
		}
		return err
	}
	return nil
}

func (c *Coordinator) transferPatientSide(ctx context.Context, patientID, newHospitalID, reason string) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		_, err := c.patients.TransferPatient(ctx, patientID, newHospitalID, reason)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return lastErr
}

func (c *Coordinator) releaseBed(ctx context.Context, bedID uuid.UUID) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		_, err := c.beds.UpdateBedStatus(ctx, bedID, model.BedStatusAvailable, nil)
		if err == nil {
			return nil
		}
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// The bed record is gone; the patient side still gets cleaned up.
			c.logger.Warn("released bed no longer exists", "bed_id", bedID.String())
			return nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return lastErr
}

func retryable(err error) bool {
	return apperrors.Is(err, apperrors.ErrConflict) || apperrors.Is(err, apperrors.ErrStoreUnavailable)
}

func snapshotBedInfo(b *model.Bed) model.BedInfo {
	bedID := b.ID
	bedNumber := b.BedNumber
	roomNumber := b.RoomNumber
	department := b.Department
	hospitalID := b.HospitalID
	return model.BedInfo{
		BedID:      &bedID,
		BedNumber:  &bedNumber,
		RoomNumber: &roomNumber,
		Department: &department,
		HospitalID: &hospitalID,
	}
}
