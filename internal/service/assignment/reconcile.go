package assignment

import (
	"context"

	"github.com/hospitalops/hospital-api/internal/model"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

// ReconcileReport summarizes one reconciliation sweep.
type ReconcileReport struct {
	BedsChecked        int `json:"beds_checked"`
	PatientsChecked    int `json:"patients_checked"`
	BedsReleased       int `json:"beds_released"`
	PatientsRepaired   int `json:"patients_repaired"`
	AssignmentsCleared int `json:"assignments_cleared"`
}

// Drifted reports whether the sweep found anything to repair.
func (r ReconcileReport) Drifted() bool {
	return r.BedsReleased > 0 || r.PatientsRepaired > 0 || r.AssignmentsCleared > 0
}

// Reconcile compares bed patient_id pointers against patient bed_info
// pointers and repairs any drift left behind by a partially completed
// operation. The bed record is the source of truth: an occupied bed naming
// an admitted patient has its patient side restored; anything else is
// released or cleared.
func (c *Coordinator) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	beds, err := c.beds.ListBeds(ctx, "")
	if err != nil {
		return nil, err
	}

	for _, b := range beds {
		if b.Status != model.BedStatusOccupied {
			continue
		}
		report.BedsChecked++

		if b.PatientID == nil {
			// Occupied with no pointer cannot name anyone; release.
			if err := c.reconcileReleaseBed(ctx, b); err != nil {
				return report, err
			}
			report.BedsReleased++
			continue
		}

		p, err := c.patients.GetPatient(ctx, *b.PatientID)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			if err := c.reconcileReleaseBed(ctx, b); err != nil {
				return report, err
			}
			report.BedsReleased++
			continue
		}
		if err != nil {
			return report, err
		}

		if pointsBack(p, b) {
			continue
		}

		if p.Status == model.PatientStatusAdmitted && !p.IsInBed {
			// Bed names the right patient; restore the patient side.
			if err := c.patients.AssignBed(ctx, p.PatientID, snapshotBedInfo(b)); err != nil {
				return report, err
			}
			report.PatientsRepaired++
			continue
		}

		// Patient discharged, transferred, or in another bed: release.
		if err := c.reconcileReleaseBed(ctx, b); err != nil {
			return report, err
		}
		report.BedsReleased++
	}

	// Patients claiming beds that do not point back.
	patients, err := c.patients.ListPatients(ctx, "")
	if err != nil {
		return report, err
	}
	for _, p := range patients {
		if !p.IsInBed {
			continue
		}
		report.PatientsChecked++

		if !p.BedInfo.Assigned() {
			if err := c.patients.RemoveBed(ctx, p.PatientID); err != nil {
				return report, err
			}
			report.AssignmentsCleared++
			continue
		}

		b, err := c.beds.GetBed(ctx, *p.BedInfo.BedID)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			if err := c.patients.RemoveBed(ctx, p.PatientID); err != nil {
				return report, err
			}
			report.AssignmentsCleared++
			continue
		}
		if err != nil {
			return report, err
		}

		if b.Status != model.BedStatusOccupied || b.PatientID == nil || *b.PatientID != p.PatientID {
			if err := c.patients.RemoveBed(ctx, p.PatientID); err != nil {
				return report, err
			}
			report.AssignmentsCleared++
		}
	}

	if report.Drifted() {
		c.logger.Warn("reconciliation repaired drift",
			"beds_released", report.BedsReleased,
			"patients_repaired", report.PatientsRepaired,
			"assignments_cleared", report.AssignmentsCleared)
	}
	return report, nil
}

func (c *Coordinator) reconcileReleaseBed(ctx context.Context, b *model.Bed) error {
	_, err := c.beds.UpdateBedStatus(ctx, b.ID, model.BedStatusAvailable, nil)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

func pointsBack(p *model.Patient, b *model.Bed) bool {
	return p.IsInBed && p.BedInfo.Assigned() && *p.BedInfo.BedID == b.ID
}
