package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusAdmitted    PatientStatus = "admitted"
	PatientStatusDischarged  PatientStatus = "discharged"
	PatientStatusTransferred PatientStatus = "transferred"
)

// BedInfo is the patient-side snapshot of a bed assignment. It mirrors the
// bed record so patient reads never have to join the beds table.
type BedInfo struct {
	BedID      *uuid.UUID `json:"bed_id"`
	BedNumber  *string    `json:"bed_number"`
	RoomNumber *string    `json:"room_number"`
	Department *string    `json:"department"`
	HospitalID *string    `json:"hospital_id"`
}

// Assigned reports whether the snapshot names a bed.
func (b BedInfo) Assigned() bool {
	return b.BedID != nil
}

// AdmissionEntry is one stay at one hospital. Entries are appended, never
// removed; the open entry has a nil discharge date.
type AdmissionEntry struct {
	HospitalID    string        `json:"hospital_id"`
	AdmissionDate time.Time     `json:"admission_date"`
	DischargeDate *time.Time    `json:"discharge_date"`
	Status        PatientStatus `json:"status"`
	Reason        string        `json:"reason,omitempty"`
}

// Open reports whether the entry is an unclosed admission.
func (e AdmissionEntry) Open() bool {
	return e.DischargeDate == nil && e.Status == PatientStatusAdmitted
}

type Patient struct {
	Base
	PatientID        string           `db:"patient_id" json:"patient_id"`
	Name             string           `db:"name" json:"name"`
	Age              *int             `db:"age" json:"age"`
	Gender           string           `db:"gender" json:"gender"`
	Phone            string           `db:"phone" json:"phone"`
	Email            string           `db:"email" json:"email"`
	Diagnosis        string           `db:"diagnosis" json:"diagnosis"`
	Status           PatientStatus    `db:"status" json:"status"`
	IsInBed          bool             `db:"is_in_bed" json:"is_in_bed"`
	BedInfo          BedInfo          `db:"-" json:"bed_info"`
	CurrentHospital  *string          `db:"current_hospital" json:"current_hospital"`
	AdmissionHistory []AdmissionEntry `db:"-" json:"admission_history"`

	// Raw JSON columns backing BedInfo and AdmissionHistory.
	BedInfoJSON          string `db:"bed_info" json:"-"`
	AdmissionHistoryJSON string `db:"admission_history" json:"-"`
}

// OpenAdmission returns the currently open admission-history entry, or nil.
func (p *Patient) OpenAdmission() *AdmissionEntry {
	if len(p.AdmissionHistory) == 0 {
		return nil
	}
	last := &p.AdmissionHistory[len(p.AdmissionHistory)-1]
	if last.Open() {
		return last
	}
	return nil
}

type CreatePatientRequest struct {
	PatientID       string `json:"patient_id" binding:"required,resourceid"`
	Name            string `json:"name" binding:"required"`
	Age             *int   `json:"age"`
	Gender          string `json:"gender"`
	Phone           string `json:"phone"`
	Email           string `json:"email" binding:"omitempty,email"`
	Diagnosis       string `json:"diagnosis"`
	Status          string `json:"status" binding:"omitempty,oneof=admitted discharged"`
	CurrentHospital string `json:"current_hospital"`
	AdmissionReason string `json:"admission_reason"`
}

type UpdatePatientRequest struct {
	Name      *string `json:"name"`
	Age       *int    `json:"age"`
	Gender    *string `json:"gender"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Diagnosis *string `json:"diagnosis"`
}

type TransferPatientRequest struct {
	NewHospitalID string `json:"new_hospital_id" binding:"required,resourceid"`
	Reason        string `json:"reason"`
}

type PatientStatistics struct {
	TotalPatients          int            `json:"total_patients"`
	AdmittedPatients       int            `json:"admitted_patients"`
	DischargedPatients     int            `json:"discharged_patients"`
	PatientsInBeds         int            `json:"patients_in_beds"`
	PatientsWithoutBeds    int            `json:"patients_without_beds"`
	DepartmentDistribution map[string]int `json:"department_distribution"`
}
