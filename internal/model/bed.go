package model

type BedStatus string

const (
	BedStatusAvailable   BedStatus = "available"
	BedStatusOccupied    BedStatus = "occupied"
	BedStatusMaintenance BedStatus = "maintenance"
)

type Bed struct {
	Base
	HospitalID string    `db:"hospital_id" json:"hospital_id"`
	BedNumber  string    `db:"bed_number" json:"bed_number"`
	RoomNumber string    `db:"room_number" json:"room_number"`
	Department string    `db:"department" json:"department"`
	BedType    string    `db:"bed_type" json:"bed_type"`
	Status     BedStatus `db:"status" json:"status"`
	PatientID  *string   `db:"patient_id" json:"patient_id"`
	Floor      int       `db:"floor" json:"floor"`
	Wing       string    `db:"wing" json:"wing"`
}

// Occupied reports whether the bed currently holds a patient pointer.
func (b *Bed) Occupied() bool {
	return b.Status == BedStatusOccupied && b.PatientID != nil
}

type CreateBedRequest struct {
	HospitalID string `json:"hospital_id" binding:"required,resourceid"`
	BedNumber  string `json:"bed_number" binding:"required"`
	RoomNumber string `json:"room_number" binding:"required"`
	Department string `json:"department" binding:"required"`
	BedType    string `json:"bed_type"`
	Floor      int    `json:"floor"`
	Wing       string `json:"wing"`
}

type UpdateBedStatusRequest struct {
	Status    string  `json:"status" binding:"required,oneof=available occupied maintenance"`
	PatientID *string `json:"patient_id"`
}

// UpdateBedDetailsRequest covers the fields a plain update may touch.
// Status and patient pointer changes go through the status endpoint.
type UpdateBedDetailsRequest struct {
	BedNumber  *string `json:"bed_number"`
	RoomNumber *string `json:"room_number"`
	Department *string `json:"department"`
	BedType    *string `json:"bed_type"`
	Floor      *int    `json:"floor"`
	Wing       *string `json:"wing"`
}

// DepartmentBedStats is a per-department slice of the bed statistics.
type DepartmentBedStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Maintenance int `json:"maintenance"`
}

type BedStatistics struct {
	TotalBeds       int                           `json:"total_beds"`
	AvailableBeds   int                           `json:"available_beds"`
	OccupiedBeds    int                           `json:"occupied_beds"`
	MaintenanceBeds int                           `json:"maintenance_beds"`
	OccupancyRate   float64                       `json:"occupancy_rate"`
	DepartmentStats map[string]DepartmentBedStats `json:"department_stats"`
}
