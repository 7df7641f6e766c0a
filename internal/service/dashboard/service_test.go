package dashboard_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/service/bed"
	"github.com/hospitalops/hospital-api/internal/service/dashboard"
	"github.com/hospitalops/hospital-api/internal/service/patient"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

type fakeBedRepo struct {
	mu   sync.Mutex
	beds map[uuid.UUID]*model.Bed
}

func newFakeBedRepo() *fakeBedRepo {
	return &fakeBedRepo{beds: make(map[uuid.UUID]*model.Bed)}
}

func cloneBed(b *model.Bed) *model.Bed {
	c := *b
	return &c
}

func (r *fakeBedRepo) Create(ctx context.Context, b *model.Bed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beds[b.ID] = cloneBed(b)
	return nil
}

func (r *fakeBedRepo) Get(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.beds[id]
	if !ok {
		return nil, apperrors.NotFound("bed", nil)
	}
	return cloneBed(b), nil
}

func (r *fakeBedRepo) Update(ctx context.Context, b *model.Bed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.beds[b.ID]
	if !ok {
		return apperrors.NotFound("bed", nil)
	}
	if stored.Version != b.Version {
		return apperrors.Conflict("bed was modified concurrently", nil)
	}
	b.Version++
	r.beds[b.ID] = cloneBed(b)
	return nil
}

func (r *fakeBedRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.beds, id)
	return nil
}

func (r *fakeBedRepo) List(ctx context.Context) ([]*model.Bed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Bed, 0, len(r.beds))
	for _, b := range r.beds {
		out = append(out, cloneBed(b))
	}
	return out, nil
}

func (r *fakeBedRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Bed, error) {
	all, _ := r.List(ctx)
	out := []*model.Bed{}
	for _, b := range all {
		if b.HospitalID == hospitalID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBedRepo) ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Bed, error) {
	all, _ := r.ListByHospital(ctx, hospitalID)
	out := []*model.Bed{}
	for _, b := range all {
		if b.Department == department {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBedRepo) ListByStatus(ctx context.Context, hospitalID string, status model.BedStatus) ([]*model.Bed, error) {
	all, _ := r.ListByHospital(ctx, hospitalID)
	out := []*model.Bed{}
	for _, b := range all {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[string]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[string]*model.Patient)}
}

func clonePatient(p *model.Patient) *model.Patient {
	c := *p
	c.AdmissionHistory = make([]model.AdmissionEntry, len(p.AdmissionHistory))
	copy(c.AdmissionHistory, p.AdmissionHistory)
	return &c
}

func (r *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.PatientID]; ok {
		return apperrors.AlreadyExists("patient", p.PatientID)
	}
	r.patients[p.PatientID] = clonePatient(p)
	return nil
}

func (r *fakePatientRepo) Get(ctx context.Context, patientID string) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[patientID]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return clonePatient(p), nil
}

func (r *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.patients[p.PatientID]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	if stored.Version != p.Version {
		return apperrors.Conflict("patient was modified concurrently", nil)
	}
	p.Version++
	r.patients[p.PatientID] = clonePatient(p)
	return nil
}

func (r *fakePatientRepo) Delete(ctx context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.patients, patientID)
	return nil
}

func (r *fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, clonePatient(p))
	}
	return out, nil
}

func (r *fakePatientRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Patient, error) {
	all, _ := r.List(ctx)
	out := []*model.Patient{}
	for _, p := range all {
		if p.CurrentHospital != nil && *p.CurrentHospital == hospitalID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePatientRepo) ListInBeds(ctx context.Context) ([]*model.Patient, error) {
	all, _ := r.List(ctx)
	out := []*model.Patient{}
	for _, p := range all {
		if p.IsInBed {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePatientRepo) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	return r.List(ctx)
}

type fakeHospitalRepo struct {
	mu        sync.Mutex
	hospitals map[string]*model.Hospital
}

func newFakeHospitalRepo() *fakeHospitalRepo {
	return &fakeHospitalRepo{hospitals: make(map[string]*model.Hospital)}
}

func (r *fakeHospitalRepo) Create(ctx context.Context, h *model.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hospitals[h.HospitalID] = h
	return nil
}

func (r *fakeHospitalRepo) Get(ctx context.Context, hospitalID string) (*model.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hospitals[hospitalID]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	return h, nil
}

func (r *fakeHospitalRepo) Update(ctx context.Context, h *model.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hospitals[h.HospitalID] = h
	return nil
}

func (r *fakeHospitalRepo) List(ctx context.Context) ([]*model.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Hospital, 0, len(r.hospitals))
	for _, h := range r.hospitals {
		out = append(out, h)
	}
	return out, nil
}

func (r *fakeHospitalRepo) Search(ctx context.Context, term string) ([]*model.Hospital, error) {
	return r.List(ctx)
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[string]*model.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: make(map[string]*model.Staff)}
}

func (r *fakeStaffRepo) Create(ctx context.Context, s *model.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staff[s.StaffID] = s
	return nil
}

func (r *fakeStaffRepo) Get(ctx context.Context, staffID string) (*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[staffID]
	if !ok {
		return nil, apperrors.NotFound("staff", nil)
	}
	return s, nil
}

func (r *fakeStaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, apperrors.NotFound("staff", nil)
}

func (r *fakeStaffRepo) Update(ctx context.Context, s *model.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staff[s.StaffID] = s
	return nil
}

func (r *fakeStaffRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Staff{}
	for _, s := range r.staff {
		if s.HospitalID == hospitalID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Staff, error) {
	all, _ := r.ListByHospital(ctx, hospitalID)
	out := []*model.Staff{}
	for _, s := range all {
		if s.Department == department {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[string]*model.InventoryItem
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[string]*model.InventoryItem)}
}

func (r *fakeInventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ItemID] = item
	return nil
}

func (r *fakeInventoryRepo) Get(ctx context.Context, itemID string) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperrors.NotFound("inventory item", nil)
	}
	return item, nil
}

func (r *fakeInventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ItemID] = item
	return nil
}

func (r *fakeInventoryRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.InventoryItem{}
	for _, item := range r.items {
		if item.HospitalID == hospitalID {
			out = append(out, item)
		}
	}
	return out, nil
}

type fixture struct {
	beds      *bed.Service
	patients  *patient.Service
	hospitals *fakeHospitalRepo
	staff     *fakeStaffRepo
	inventory *fakeInventoryRepo
	svc       *dashboard.Service
}

func newFixture(t *testing.T, departments []string) *fixture {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	bedRepo := newFakeBedRepo()
	patientRepo := newFakePatientRepo()
	hospitals := newFakeHospitalRepo()
	staff := newFakeStaffRepo()
	inventory := newFakeInventoryRepo()

	beds := bed.NewService(bedRepo, log)
	patients := patient.NewService(patientRepo, log)

	require.NoError(t, hospitals.Create(context.Background(), &model.Hospital{
		HospitalID:  "HOSP001",
		Name:        "City General Hospital",
		Departments: departments,
		IsActive:    true,
	}))

	return &fixture{
		beds:      beds,
		patients:  patients,
		hospitals: hospitals,
		staff:     staff,
		inventory: inventory,
		svc:       dashboard.NewService(hospitals, beds, patients, staff, inventory, log),
	}
}

// addBeds creates total beds and immediately occupies the first occupied of
// them with generated patient ids.
func (f *fixture) addBeds(t *testing.T, total, occupied int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < total; i++ {
		b := &model.Bed{
			HospitalID: "HOSP001",
			BedNumber:  fmt.Sprintf("B%03d", i+1),
			RoomNumber: "101",
			Department: "general",
		}
		require.NoError(t, f.beds.CreateBed(ctx, b))
		if i < occupied {
			pid := fmt.Sprintf("PAT%03d", i+1)
			_, err := f.beds.UpdateBedStatus(ctx, b.ID, model.BedStatusOccupied, &pid)
			require.NoError(t, err)
		}
	}
}

func (f *fixture) addStaff(t *testing.T, department string, onDuty int, offDuty int) {
	t.Helper()
	ctx := context.Background()
	n := 0
	add := func(status model.StaffStatus) {
		n++
		require.NoError(t, f.staff.Create(ctx, &model.Staff{
			StaffID:       fmt.Sprintf("STF-%s-%03d", department, n),
			HospitalID:    "HOSP001",
			Name:          "Staff Member",
			Role:          "nurse",
			Department:    department,
			CurrentStatus: status,
		}))
	}
	for i := 0; i < onDuty; i++ {
		add(model.StaffStatusOnDuty)
	}
	for i := 0; i < offDuty; i++ {
		add(model.StaffStatusOffDuty)
	}
}

func alertsByCategory(alerts []model.Alert, category model.AlertCategory) []model.Alert {
	out := []model.Alert{}
	for _, a := range alerts {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func TestOccupancyCriticalAtNinetyPercent(t *testing.T) {
	f := newFixture(t, nil)
	f.addBeds(t, 10, 9)

	alerts, err := f.svc.GetHospitalAlerts(context.Background(), "HOSP001")
	require.NoError(t, err)

	bedAlerts := alertsByCategory(alerts, model.AlertCategoryBeds)
	require.Len(t, bedAlerts, 1)
	assert.Equal(t, model.AlertLevelCritical, bedAlerts[0].Level)
}

func TestOccupancyWarningAboveEightyPercent(t *testing.T) {
	f := newFixture(t, nil)
	f.addBeds(t, 6, 5) // 83.33%

	alerts, err := f.svc.GetHospitalAlerts(context.Background(), "HOSP001")
	require.NoError(t, err)

	bedAlerts := alertsByCategory(alerts, model.AlertCategoryBeds)
	require.Len(t, bedAlerts, 1)
	assert.Equal(t, model.AlertLevelWarning, bedAlerts[0].Level)
}

func TestOccupancyNoAlertAtEightyPercent(t *testing.T) {
	f := newFixture(t, nil)
	f.addBeds(t, 10, 8)

	alerts, err := f.svc.GetHospitalAlerts(context.Background(), "HOSP001")
	require.NoError(t, err)
	assert.Empty(t, alertsByCategory(alerts, model.AlertCategoryBeds))
}

func TestOccupancyNoAlertWithoutBeds(t *testing.T) {
	f := newFixture(t, nil)

	alerts, err := f.svc.GetHospitalAlerts(context.Background(), "HOSP001")
	require.NoError(t, err)
	assert.Empty(t, alertsByCategory(alerts, model.AlertCategoryBeds))
}

func TestStaffingAlert(t *testing.T) {
	f := newFixture(t, []string{"emergency", "icu"})
	f.addStaff(t, "emergency", 1, 3)
	f.addStaff(t, "icu", 2, 0)

	alerts, err := f.svc.GetHospitalAlerts(context.Background(), "HOSP001")
	require.NoError(t, err)

	staffing := alertsByCategory(alerts, model.AlertCategoryStaffing)
	require.Len(t, staffing, 1)
	assert.Equal(t, model.AlertLevelWarning, staffing[0].Level)
	assert.Equal(t, "emergency", staffing[0].Department)
	assert.Equal(t, 1, staffing[0].Count)
}

func TestInventoryAlerts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 10)
	later := time.Now().AddDate(1, 0, 0)
	require.NoError(t, f.inventory.Create(ctx, &model.InventoryItem{
		ItemID: "INV001", HospitalID: "HOSP001", Name: "IV Fluid Bags",
		Category: "supplies", Quantity: 20, MinimumStock: 50,
	}))
	require.NoError(t, f.inventory.Create(ctx, &model.InventoryItem{
		ItemID: "INV002", HospitalID: "HOSP001", Name: "Amoxicillin",
		Category: "medication", Quantity: 500, MinimumStock: 50, ExpiryDate: &soon,
	}))
	require.NoError(t, f.inventory.Create(ctx, &model.InventoryItem{
		ItemID: "INV003", HospitalID: "HOSP001", Name: "Aspirin",
		Category: "medication", Quantity: 500, MinimumStock: 50, ExpiryDate: &later,
	}))

	alerts, err := f.svc.GetHospitalAlerts(ctx, "HOSP001")
	require.NoError(t, err)

	inv := alertsByCategory(alerts, model.AlertCategoryInventory)
	require.Len(t, inv, 2)
	assert.Equal(t, 1, inv[0].Count)
	assert.Equal(t, 1, inv[1].Count)
}

func TestAlertsForUnknownHospital(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.GetHospitalAlerts(context.Background(), "NOPE")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestGetDashboard(t *testing.T) {
	f := newFixture(t, []string{"general"})
	ctx := context.Background()

	f.addBeds(t, 4, 2)
	f.addStaff(t, "general", 2, 1)

	hospitalID := "HOSP001"
	p := &model.Patient{
		PatientID:       "PAT001",
		Name:            "Test Patient",
		Status:          model.PatientStatusAdmitted,
		CurrentHospital: &hospitalID,
	}
	require.NoError(t, f.patients.CreatePatient(ctx, p))

	require.NoError(t, f.inventory.Create(ctx, &model.InventoryItem{
		ItemID: "INV001", HospitalID: "HOSP001", Name: "Surgical Gloves",
		Category: "supplies", Quantity: 100, MinimumStock: 10, UnitPrice: 0.25,
	}))

	dash, err := f.svc.GetDashboard(ctx, "HOSP001")
	require.NoError(t, err)

	assert.Equal(t, "City General Hospital", dash.HospitalInfo.Name)
	assert.Equal(t, 4, dash.Summary.TotalBeds)
	assert.Equal(t, 2, dash.Summary.OccupiedBeds)
	assert.Equal(t, 50.0, dash.Summary.OccupancyRate)
	assert.Equal(t, 1, dash.Summary.TotalPatients)
	assert.Equal(t, 3, dash.Summary.TotalStaff)
	assert.Equal(t, 2, dash.Summary.OnDutyStaff)
	assert.Equal(t, 1, dash.Summary.TotalInventoryItems)
	assert.Equal(t, 25.0, dash.Summary.InventoryValue)

	require.Len(t, dash.Departments, 1)
	assert.Equal(t, "general", dash.Departments[0].Name)
	assert.Equal(t, 4, dash.Departments[0].BedsCount)
	assert.Equal(t, 2, dash.Departments[0].OnDutyStaff)
	assert.False(t, dash.LastUpdated.IsZero())
}
