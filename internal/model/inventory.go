package model

import "time"

type InventoryItem struct {
	Base
	ItemID       string     `db:"item_id" json:"item_id"`
	HospitalID   string     `db:"hospital_id" json:"hospital_id"`
	Name         string     `db:"name" json:"name"`
	Category     string     `db:"category" json:"category"`
	Quantity     int        `db:"quantity" json:"quantity"`
	MinimumStock int        `db:"minimum_stock" json:"minimum_stock"`
	UnitPrice    float64    `db:"unit_price" json:"unit_price"`
	ExpiryDate   *time.Time `db:"expiry_date" json:"expiry_date"`
	Supplier     string     `db:"supplier" json:"supplier"`
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinimumStock
}

// ExpiringWithin reports whether the item expires within d from now.
func (i *InventoryItem) ExpiringWithin(d time.Duration) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return i.ExpiryDate.Before(time.Now().Add(d))
}

type CreateInventoryItemRequest struct {
	ItemID       string     `json:"item_id" binding:"required,resourceid"`
	HospitalID   string     `json:"hospital_id" binding:"required,resourceid"`
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category" binding:"required"`
	Quantity     int        `json:"quantity" binding:"min=0"`
	MinimumStock int        `json:"minimum_stock" binding:"min=0"`
	UnitPrice    float64    `json:"unit_price" binding:"min=0"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Supplier     string     `json:"supplier"`
}

type UpdateStockRequest struct {
	// Delta adjusts the quantity: positive restocks, negative consumes.
	Delta int `json:"delta" binding:"required"`
}

type InventoryStatistics struct {
	TotalItems           int            `json:"total_items"`
	TotalValue           float64        `json:"total_value"`
	LowStockCount        int            `json:"low_stock_count"`
	ExpiringCount        int            `json:"expiring_count"`
	CategoryDistribution map[string]int `json:"category_distribution"`
}
