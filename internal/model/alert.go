package model

import "time"

type AlertLevel string

const (
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelCritical AlertLevel = "critical"
)

type AlertCategory string

const (
	AlertCategoryBeds      AlertCategory = "beds"
	AlertCategoryStaffing  AlertCategory = "staffing"
	AlertCategoryInventory AlertCategory = "inventory"
)

// Alert is evaluated at read time and never persisted.
type Alert struct {
	Level      AlertLevel    `json:"type"`
	Category   AlertCategory `json:"category"`
	Message    string        `json:"message"`
	Department string        `json:"department,omitempty"`
	Count      int           `json:"count,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
