package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalops/hospital-api/internal/model"
)

func TestHospitalFlow(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	status, resp := env.request(t, "POST", "/hospitals", map[string]interface{}{
		"hospital_id": "HOSP001",
		"name":        "City General Hospital",
		"address":     "100 Main St",
		"city":        "Springfield",
		"phone":       "555-0100",
		"departments": []string{"emergency", "icu"},
	}, "")
	require.Equal(t, http.StatusCreated, status)

	var created model.Hospital
	decode(t, resp.Data, &created)
	assert.True(t, created.IsActive)
	assert.Equal(t, "general", created.HospitalType)

	// Partial update leaves untouched fields alone.
	status, resp = env.request(t, "PUT", "/hospitals/HOSP001", map[string]interface{}{
		"name": "City General Medical Center",
	}, "")
	require.Equal(t, http.StatusOK, status)
	var updated model.Hospital
	decode(t, resp.Data, &updated)
	assert.Equal(t, "City General Medical Center", updated.Name)
	assert.Equal(t, "555-0100", updated.Phone)

	status, resp = env.request(t, "GET", "/hospitals/search?q=springfield", nil, "")
	require.Equal(t, http.StatusOK, status)
	var found []model.Hospital
	decode(t, resp.Data, &found)
	assert.Len(t, found, 1)

	// Deactivation, then a second attempt conflicts.
	status, _ = env.request(t, "DELETE", "/hospitals/HOSP001", nil, "")
	require.Equal(t, http.StatusOK, status)
	status, _ = env.request(t, "DELETE", "/hospitals/HOSP001", nil, "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestHospitalDashboardAndAlerts(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	status, _ := env.request(t, "POST", "/hospitals", map[string]interface{}{
		"hospital_id": "HOSP001",
		"name":        "City General Hospital",
		"address":     "100 Main St",
		"phone":       "555-0100",
		"departments": []string{"emergency"},
	}, "")
	require.Equal(t, http.StatusCreated, status)

	// Ten beds, nine occupied: occupancy is at the critical threshold.
	for i := 0; i < 10; i++ {
		status, resp := env.request(t, "POST", "/beds", map[string]interface{}{
			"hospital_id": "HOSP001",
			"bed_number":  string(rune('A'+i)) + "001",
			"room_number": "101",
			"department":  "emergency",
		}, "")
		require.Equal(t, http.StatusCreated, status)

		if i == 9 {
			break
		}
		var b model.Bed
		decode(t, resp.Data, &b)
		status, _ = env.request(t, "PUT", "/beds/"+b.ID.String()+"/status", map[string]interface{}{
			"status":     "occupied",
			"patient_id": "PAT00" + string(rune('0'+i)),
		}, "")
		require.Equal(t, http.StatusOK, status)
	}

	// One understaffed department and one low-stock item.
	status, _ = env.request(t, "POST", "/staff", map[string]interface{}{
		"staff_id":    "STF001",
		"hospital_id": "HOSP001",
		"name":        "Dr. Sarah Chen",
		"role":        "doctor",
		"department":  "emergency",
		"email":       "sarah.chen@example.com",
		"password":    "password123",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	status, _ = env.request(t, "PUT", "/staff/STF001/status", map[string]interface{}{
		"status": "on_duty",
	}, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, "POST", "/inventory", map[string]interface{}{
		"item_id":       "INV001",
		"hospital_id":   "HOSP001",
		"name":          "Surgical masks",
		"category":      "supplies",
		"quantity":      50,
		"minimum_stock": 100,
	}, "")
	require.Equal(t, http.StatusCreated, status)

	status, resp := env.request(t, "GET", "/hospitals/HOSP001/alerts", nil, "")
	require.Equal(t, http.StatusOK, status)
	var alerts []model.Alert
	decode(t, resp.Data, &alerts)

	byCategory := map[model.AlertCategory][]model.Alert{}
	for _, a := range alerts {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}
	require.Len(t, byCategory[model.AlertCategoryBeds], 1)
	assert.Equal(t, model.AlertLevelCritical, byCategory[model.AlertCategoryBeds][0].Level)
	require.Len(t, byCategory[model.AlertCategoryStaffing], 1)
	assert.Equal(t, "emergency", byCategory[model.AlertCategoryStaffing][0].Department)
	require.Len(t, byCategory[model.AlertCategoryInventory], 1)
	assert.Equal(t, 1, byCategory[model.AlertCategoryInventory][0].Count)

	status, resp = env.request(t, "GET", "/hospitals/HOSP001/dashboard", nil, "")
	require.Equal(t, http.StatusOK, status)
	var dash model.Dashboard
	decode(t, resp.Data, &dash)
	assert.Equal(t, 10, dash.Summary.TotalBeds)
	assert.Equal(t, 9, dash.Summary.OccupiedBeds)
	assert.InDelta(t, 90.0, dash.Summary.OccupancyRate, 0.01)
	assert.Equal(t, 1, dash.Summary.OnDutyStaff)
	assert.NotEmpty(t, dash.Alerts)

	// Alerts for an unknown hospital 404.
	status, _ = env.request(t, "GET", "/hospitals/HOSP999/alerts", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestInventoryFlow(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	status, resp := env.request(t, "POST", "/inventory", map[string]interface{}{
		"item_id":       "INV010",
		"hospital_id":   "HOSP001",
		"name":          "IV fluid",
		"category":      "medication",
		"quantity":      200,
		"minimum_stock": 50,
		"unit_price":    3.5,
	}, "")
	require.Equal(t, http.StatusCreated, status)

	// Consume most of the stock.
	status, resp = env.request(t, "PUT", "/inventory/INV010/stock", map[string]interface{}{
		"delta": -160,
	}, "")
	require.Equal(t, http.StatusOK, status)
	var item model.InventoryItem
	decode(t, resp.Data, &item)
	assert.Equal(t, 40, item.Quantity)

	// Draining below zero is rejected.
	status, _ = env.request(t, "PUT", "/inventory/INV010/stock", map[string]interface{}{
		"delta": -100,
	}, "")
	assert.Equal(t, http.StatusConflict, status)

	status, resp = env.request(t, "GET", "/inventory/low-stock?hospital_id=HOSP001", nil, "")
	require.Equal(t, http.StatusOK, status)
	var low []model.InventoryItem
	decode(t, resp.Data, &low)
	require.Len(t, low, 1)
	assert.Equal(t, "INV010", low[0].ItemID)
}
