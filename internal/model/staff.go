package model

type StaffStatus string

const (
	StaffStatusOnDuty  StaffStatus = "on_duty"
	StaffStatusOffDuty StaffStatus = "off_duty"
	StaffStatusOnLeave StaffStatus = "on_leave"
)

type Staff struct {
	Base
	StaffID       string      `db:"staff_id" json:"staff_id"`
	HospitalID    string      `db:"hospital_id" json:"hospital_id"`
	Name          string      `db:"name" json:"name"`
	Role          string      `db:"role" json:"role"`
	Department    string      `db:"department" json:"department"`
	Email         string      `db:"email" json:"email"`
	Phone         string      `db:"phone" json:"phone"`
	CurrentStatus StaffStatus `db:"current_status" json:"current_status"`
	PasswordHash  string      `db:"password_hash" json:"-"`
}

type CreateStaffRequest struct {
	StaffID    string `json:"staff_id" binding:"required,resourceid"`
	HospitalID string `json:"hospital_id" binding:"required,resourceid"`
	Name       string `json:"name" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" binding:"required,min=8"`
}

type UpdateStaffStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=on_duty off_duty on_leave"`
}

type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type StaffLoginResponse struct {
	Token string `json:"token"`
	Staff *Staff `json:"staff"`
}

type StaffStatistics struct {
	TotalStaff       int            `json:"total_staff"`
	OnDuty           int            `json:"on_duty"`
	OffDuty          int            `json:"off_duty"`
	OnLeave          int            `json:"on_leave"`
	RoleDistribution map[string]int `json:"role_distribution"`
}
