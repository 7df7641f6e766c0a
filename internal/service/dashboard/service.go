package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	"github.com/hospitalops/hospital-api/internal/service/bed"
	"github.com/hospitalops/hospital-api/internal/service/patient"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

// Alert thresholds.
const (
	occupancyCritical = 90.0 // rate at or above is critical
	occupancyWarning  = 80.0 // rate above is a warning
	minOnDutyStaff    = 2
	expiryWindow      = 30 * 24 * time.Hour
)

// DashboardService is a read-only aggregation over registry state. Alerts
// are evaluated at read time and never stored, so they are always consistent
// with current data.
type DashboardService interface {
	GetDashboard(ctx context.Context, hospitalID string) (*model.Dashboard, error)
	GetHospitalAlerts(ctx context.Context, hospitalID string) ([]model.Alert, error)
	GetStaffStatistics(ctx context.Context, hospitalID string) (*model.StaffStatistics, error)
	GetInventoryStatistics(ctx context.Context, hospitalID string) (*model.InventoryStatistics, error)
}

type Service struct {
	hospitals repository.HospitalRepository
	beds      bed.BedService
	patients  patient.PatientService
	staff     repository.StaffRepository
	inventory repository.InventoryRepository
	logger    *logger.Logger

	// Hospital metadata changes rarely; cache it to keep dashboard reads
	// from hitting the hospitals table on every request. Registry state is
	// never cached.
	hospitalCache *cache.Cache
}

func NewService(
	hospitals repository.HospitalRepository,
	beds bed.BedService,
	patients patient.PatientService,
	staff repository.StaffRepository,
	inventory repository.InventoryRepository,
	logger *logger.Logger,
) *Service {
	return &Service{
		hospitals:     hospitals,
		beds:          beds,
		patients:      patients,
		staff:         staff,
		inventory:     inventory,
		logger:        logger,
		hospitalCache: cache.New(time.Minute, 5*time.Minute),
	}
}

func (s *Service) getHospital(ctx context.Context, hospitalID string) (*model.Hospital, error) {
	if cached, ok := s.hospitalCache.Get(hospitalID); ok {
		return cached.(*model.Hospital), nil
	}
	hospital, err := s.hospitals.Get(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	s.hospitalCache.Set(hospitalID, hospital, cache.DefaultExpiration)
	return hospital, nil
}

func (s *Service) GetDashboard(ctx context.Context, hospitalID string) (*model.Dashboard, error) {
	hospital, err := s.getHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	bedStats, err := s.beds.GetStatistics(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	patientStats, err := s.patients.GetStatistics(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	staffStats, err := s.GetStaffStatistics(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	inventoryStats, err := s.GetInventoryStatistics(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	departments, err := s.departmentInfo(ctx, hospital)
	if err != nil {
		return nil, err
	}
	alerts, err := s.GetHospitalAlerts(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		HospitalInfo: hospital,
		Summary: model.DashboardSummary{
			TotalBeds:           bedStats.TotalBeds,
			OccupiedBeds:        bedStats.OccupiedBeds,
			AvailableBeds:       bedStats.AvailableBeds,
			OccupancyRate:       bedStats.OccupancyRate,
			TotalPatients:       patientStats.TotalPatients,
			AdmittedPatients:    patientStats.AdmittedPatients,
			TotalStaff:          staffStats.TotalStaff,
			OnDutyStaff:         staffStats.OnDuty,
			TotalInventoryItems: inventoryStats.TotalItems,
			InventoryValue:      inventoryStats.TotalValue,
		},
		BedStatistics:       bedStats,
		PatientStatistics:   patientStats,
		StaffStatistics:     staffStats,
		InventoryStatistics: inventoryStats,
		Departments:         departments,
		Alerts:              alerts,
		LastUpdated:         time.Now(),
	}, nil
}

func (s *Service) departmentInfo(ctx context.Context, hospital *model.Hospital) ([]model.DepartmentInfo, error) {
	info := make([]model.DepartmentInfo, 0, len(hospital.Departments))
	for _, dept := range hospital.Departments {
		deptStaff, err := s.staff.ListByDepartment(ctx, hospital.HospitalID, dept)
		if err != nil {
			return nil, err
		}
		deptBeds, err := s.beds.ListBedsByDepartment(ctx, hospital.HospitalID, dept)
		if err != nil {
			return nil, err
		}
		onDuty := 0
		for _, st := range deptStaff {
			if st.CurrentStatus == model.StaffStatusOnDuty {
				onDuty++
			}
		}
		info = append(info, model.DepartmentInfo{
			Name:        dept,
			StaffCount:  len(deptStaff),
			BedsCount:   len(deptBeds),
			OnDutyStaff: onDuty,
		})
	}
	return info, nil
}

// GetHospitalAlerts evaluates the alert rules against current registry
// state. Occupancy at or above 90% is critical, above 80% is a warning;
// a department with fewer than two on-duty staff is understaffed.
func (s *Service) GetHospitalAlerts(ctx context.Context, hospitalID string) ([]model.Alert, error) {
	hospital, err := s.getHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	alerts := []model.Alert{}

	bedStats, err := s.beds.GetStatistics(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	switch {
	case bedStats.TotalBeds == 0:
	case bedStats.OccupancyRate >= occupancyCritical:
		alerts = append(alerts, model.Alert{
			Level:     model.AlertLevelCritical,
			Category:  model.AlertCategoryBeds,
			Message:   fmt.Sprintf("Hospital is at %.1f%% capacity", bedStats.OccupancyRate),
			Timestamp: now,
		})
	case bedStats.OccupancyRate > occupancyWarning:
		alerts = append(alerts, model.Alert{
			Level:     model.AlertLevelWarning,
			Category:  model.AlertCategoryBeds,
			Message:   fmt.Sprintf("Hospital capacity is at %.1f%%", bedStats.OccupancyRate),
			Timestamp: now,
		})
	}

	for _, dept := range hospital.Departments {
		deptStaff, err := s.staff.ListByDepartment(ctx, hospitalID, dept)
		if err != nil {
			return nil, err
		}
		onDuty := 0
		for _, st := range deptStaff {
			if st.CurrentStatus == model.StaffStatusOnDuty {
				onDuty++
			}
		}
		if onDuty < minOnDutyStaff {
			alerts = append(alerts, model.Alert{
				Level:      model.AlertLevelWarning,
				Category:   model.AlertCategoryStaffing,
				Message:    fmt.Sprintf("%s department has only %d staff on duty", dept, onDuty),
				Department: dept,
				Count:      onDuty,
				Timestamp:  now,
			})
		}
	}

	items, err := s.inventory.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	lowStock, expiring := 0, 0
	for _, item := range items {
		if item.LowStock() {
			lowStock++
		}
		if item.ExpiringWithin(expiryWindow) {
			expiring++
		}
	}
	if lowStock > 0 {
		alerts = append(alerts, model.Alert{
			Level:     model.AlertLevelWarning,
			Category:  model.AlertCategoryInventory,
			Message:   fmt.Sprintf("%d items are running low on stock", lowStock),
			Count:     lowStock,
			Timestamp: now,
		})
	}
	if expiring > 0 {
		alerts = append(alerts, model.Alert{
			Level:     model.AlertLevelWarning,
			Category:  model.AlertCategoryInventory,
			Message:   fmt.Sprintf("%d items are expiring soon", expiring),
			Count:     expiring,
			Timestamp: now,
		})
	}

	return alerts, nil
}

func (s *Service) GetStaffStatistics(ctx context.Context, hospitalID string) (*model.StaffStatistics, error) {
	staff, err := s.staff.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	stats := &model.StaffStatistics{
		RoleDistribution: make(map[string]int),
	}
	for _, st := range staff {
		stats.TotalStaff++
		stats.RoleDistribution[st.Role]++
		switch st.CurrentStatus {
		case model.StaffStatusOnDuty:
			stats.OnDuty++
		case model.StaffStatusOffDuty:
			stats.OffDuty++
		case model.StaffStatusOnLeave:
			stats.OnLeave++
		}
	}
	return stats, nil
}

func (s *Service) GetInventoryStatistics(ctx context.Context, hospitalID string) (*model.InventoryStatistics, error) {
	items, err := s.inventory.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	stats := &model.InventoryStatistics{
		CategoryDistribution: make(map[string]int),
	}
	for _, item := range items {
		stats.TotalItems++
		stats.TotalValue += float64(item.Quantity) * item.UnitPrice
		stats.CategoryDistribution[item.Category]++
		if item.LowStock() {
			stats.LowStockCount++
		}
		if item.ExpiringWithin(expiryWindow) {
			stats.ExpiringCount++
		}
	}
	return stats, nil
}
