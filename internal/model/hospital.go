package model

import "time"

type Hospital struct {
	Base
	HospitalID   string   `db:"hospital_id" json:"hospital_id"`
	Name         string   `db:"name" json:"name"`
	Address      string   `db:"address" json:"address"`
	City         string   `db:"city" json:"city"`
	State        string   `db:"state" json:"state"`
	ZipCode      string   `db:"zip_code" json:"zip_code"`
	Country      string   `db:"country" json:"country"`
	Phone        string   `db:"phone" json:"phone"`
	Email        string   `db:"email" json:"email"`
	HospitalType string   `db:"hospital_type" json:"hospital_type"`
	Departments  []string `db:"-" json:"departments"`
	IsActive     bool     `db:"is_active" json:"is_active"`

	DepartmentsJSON string `db:"departments" json:"-"`
}

type CreateHospitalRequest struct {
	HospitalID   string   `json:"hospital_id" binding:"required,resourceid"`
	Name         string   `json:"name" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zip_code"`
	Country      string   `json:"country"`
	Phone        string   `json:"phone" binding:"required"`
	Email        string   `json:"email" binding:"omitempty,email"`
	HospitalType string   `json:"hospital_type"`
	Departments  []string `json:"departments"`
}

type UpdateHospitalRequest struct {
	Name         *string   `json:"name"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	ZipCode      *string   `json:"zip_code"`
	Phone        *string   `json:"phone"`
	Email        *string   `json:"email" binding:"omitempty,email"`
	HospitalType *string   `json:"hospital_type"`
	Departments  *[]string `json:"departments"`
}

// DepartmentInfo is the per-department summary shown on the dashboard.
type DepartmentInfo struct {
	Name        string `json:"name"`
	StaffCount  int    `json:"staff_count"`
	BedsCount   int    `json:"beds_count"`
	OnDutyStaff int    `json:"on_duty_staff"`
}

type DashboardSummary struct {
	TotalBeds           int     `json:"total_beds"`
	OccupiedBeds        int     `json:"occupied_beds"`
	AvailableBeds       int     `json:"available_beds"`
	OccupancyRate       float64 `json:"occupancy_rate"`
	TotalPatients       int     `json:"total_patients"`
	AdmittedPatients    int     `json:"admitted_patients"`
	TotalStaff          int     `json:"total_staff"`
	OnDutyStaff         int     `json:"on_duty_staff"`
	TotalInventoryItems int     `json:"total_inventory_items"`
	InventoryValue      float64 `json:"inventory_value"`
}

type Dashboard struct {
	HospitalInfo        *Hospital            `json:"hospital_info"`
	Summary             DashboardSummary     `json:"summary"`
	BedStatistics       *BedStatistics       `json:"bed_statistics"`
	PatientStatistics   *PatientStatistics   `json:"patient_statistics"`
	StaffStatistics     *StaffStatistics     `json:"staff_statistics"`
	InventoryStatistics *InventoryStatistics `json:"inventory_statistics"`
	Departments         []DepartmentInfo     `json:"departments"`
	Alerts              []Alert              `json:"alerts"`
	LastUpdated         time.Time            `json:"last_updated"`
}
