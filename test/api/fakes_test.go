package api_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalops/hospital-api/internal/model"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

// In-memory repositories backing the API under test. They keep the same
// compare-and-set update semantics as the postgres implementations so the
// full stack behaves the way it does against a real database.

type memBedRepo struct {
	mu   sync.Mutex
	beds map[uuid.UUID]*model.Bed
}

func newMemBedRepo() *memBedRepo {
	return &memBedRepo{beds: make(map[uuid.UUID]*model.Bed)}
}

func copyBed(b *model.Bed) *model.Bed {
	c := *b
	return &c
}

func (r *memBedRepo) Create(ctx context.Context, b *model.Bed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beds[b.ID] = copyBed(b)
	return nil
}

func (r *memBedRepo) Get(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.beds[id]
	if !ok {
		return nil, apperrors.NotFound("bed", nil)
	}
	return copyBed(b), nil
}

func (r *memBedRepo) Update(ctx context.Context, b *model.Bed) error {
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
	r.beds[b.ID] = copyBed(b)
	return nil
}

func (r *memBedRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.beds[id]; !ok {
		return apperrors.NotFound("bed", nil)
	}
	delete(r.beds, id)
	return nil
}

func (r *memBedRepo) List(ctx context.Context) ([]*model.Bed, error) {
	return r.filter(func(*model.Bed) bool { return true }), nil
}

func (r *memBedRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Bed, error) {
	return r.filter(func(b *model.Bed) bool {
		return hospitalID == "" || b.HospitalID == hospitalID
	}), nil
}

func (r *memBedRepo) ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Bed, error) {
	return r.filter(func(b *model.Bed) bool {
		return (hospitalID == "" || b.HospitalID == hospitalID) && b.Department == department
	}), nil
}

func (r *memBedRepo) ListByStatus(ctx context.Context, hospitalID string, status model.BedStatus) ([]*model.Bed, error) {
	return r.filter(func(b *model.Bed) bool {
		return (hospitalID == "" || b.HospitalID == hospitalID) && b.Status == status
	}), nil
}

func (r *memBedRepo) filter(keep func(*model.Bed) bool) []*model.Bed {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Bed{}
	for _, b := range r.beds {
		if keep(b) {
			out = append(out, copyBed(b))
		}
	}
	return out
}

type memPatientRepo struct {
	mu       sync.Mutex
	patients map[string]*model.Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{patients: make(map[string]*model.Patient)}
}

func copyPatient(p *model.Patient) *model.Patient {
	c := *p
	c.AdmissionHistory = append([]model.AdmissionEntry(nil), p.AdmissionHistory...)
	return &c
}

func (r *memPatientRepo) Create(ctx context.Context, p *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.PatientID]; ok {
		return apperrors.AlreadyExists("patient", p.PatientID)
	}
	r.patients[p.PatientID] = copyPatient(p)
	return nil
}

func (r *memPatientRepo) Get(ctx context.Context, patientID string) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[patientID]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return copyPatient(p), nil
}

func (r *memPatientRepo) Update(ctx context.Context, p *model.Patient) error {
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
	r.patients[p.PatientID] = copyPatient(p)
	return nil
}

func (r *memPatientRepo) Delete(ctx context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[patientID]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	delete(r.patients, patientID)
	return nil
}

func (r *memPatientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	return r.filter(func(*model.Patient) bool { return true }), nil
}

func (r *memPatientRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Patient, error) {
	return r.filter(func(p *model.Patient) bool {
		return p.CurrentHospital != nil && *p.CurrentHospital == hospitalID
	}), nil
}

func (r *memPatientRepo) ListInBeds(ctx context.Context) ([]*model.Patient, error) {
	return r.filter(func(p *model.Patient) bool { return p.IsInBed }), nil
}

func (r *memPatientRepo) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	term = strings.ToLower(term)
	return r.filter(func(p *model.Patient) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.PatientID), term)
	}), nil
}

func (r *memPatientRepo) filter(keep func(*model.Patient) bool) []*model.Patient {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Patient{}
	for _, p := range r.patients {
		if keep(p) {
			out = append(out, copyPatient(p))
		}
	}
	return out
}

type memHospitalRepo struct {
	mu        sync.Mutex
	hospitals map[string]*model.Hospital
}

func newMemHospitalRepo() *memHospitalRepo {
	return &memHospitalRepo{hospitals: make(map[string]*model.Hospital)}
}

func copyHospital(h *model.Hospital) *model.Hospital {
	c := *h
	c.Departments = append([]string(nil), h.Departments...)
	return &c
}

func (r *memHospitalRepo) Create(ctx context.Context, h *model.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hospitals[h.HospitalID]; ok {
		return apperrors.AlreadyExists("hospital", h.HospitalID)
	}
	r.hospitals[h.HospitalID] = copyHospital(h)
	return nil
}

func (r *memHospitalRepo) Get(ctx context.Context, hospitalID string) (*model.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hospitals[hospitalID]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	return copyHospital(h), nil
}

func (r *memHospitalRepo) Update(ctx context.Context, h *model.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.hospitals[h.HospitalID]
	if !ok {
		return apperrors.NotFound("hospital", nil)
	}
	if stored.Version != h.Version {
		return apperrors.Conflict("hospital was modified concurrently", nil)
	}
	h.Version++
	r.hospitals[h.HospitalID] = copyHospital(h)
	return nil
}

func (r *memHospitalRepo) List(ctx context.Context) ([]*model.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Hospital{}
	for _, h := range r.hospitals {
		out = append(out, copyHospital(h))
	}
	return out, nil
}

func (r *memHospitalRepo) Search(ctx context.Context, term string) ([]*model.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	term = strings.ToLower(term)
	out := []*model.Hospital{}
	for _, h := range r.hospitals {
		if strings.Contains(strings.ToLower(h.Name), term) || strings.Contains(strings.ToLower(h.City), term) {
			out = append(out, copyHospital(h))
		}
	}
	return out, nil
}

type memStaffRepo struct {
	mu    sync.Mutex
	staff map[string]*model.Staff
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{staff: make(map[string]*model.Staff)}
}

func copyStaff(s *model.Staff) *model.Staff {
	c := *s
	return &c
}

func (r *memStaffRepo) Create(ctx context.Context, s *model.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[s.StaffID]; ok {
		return apperrors.AlreadyExists("staff", s.StaffID)
	}
	r.staff[s.StaffID] = copyStaff(s)
	return nil
}

func (r *memStaffRepo) Get(ctx context.Context, staffID string) (*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[staffID]
	if !ok {
		return nil, apperrors.NotFound("staff", nil)
	}
	return copyStaff(s), nil
}

func (r *memStaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.Email == email {
			return copyStaff(s), nil
		}
	}
	return nil, apperrors.NotFound("staff", nil)
}

func (r *memStaffRepo) Update(ctx context.Context, s *model.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.staff[s.StaffID]
	if !ok {
		return apperrors.NotFound("staff", nil)
	}
	if stored.Version != s.Version {
		return apperrors.Conflict("staff was modified concurrently", nil)
	}
	s.Version++
	r.staff[s.StaffID] = copyStaff(s)
	return nil
}

func (r *memStaffRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.Staff, error) {
	return r.filter(func(s *model.Staff) bool {
		return hospitalID == "" || s.HospitalID == hospitalID
	}), nil
}

func (r *memStaffRepo) ListByDepartment(ctx context.Context, hospitalID, department string) ([]*model.Staff, error) {
	return r.filter(func(s *model.Staff) bool {
		return (hospitalID == "" || s.HospitalID == hospitalID) && s.Department == department
	}), nil
}

func (r *memStaffRepo) filter(keep func(*model.Staff) bool) []*model.Staff {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Staff{}
	for _, s := range r.staff {
		if keep(s) {
			out = append(out, copyStaff(s))
		}
	}
	return out
}

type memInventoryRepo struct {
	mu    sync.Mutex
	items map[string]*model.InventoryItem
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{items: make(map[string]*model.InventoryItem)}
}

func copyItem(i *model.InventoryItem) *model.InventoryItem {
	c := *i
	return &c
}

func (r *memInventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ItemID]; ok {
		return apperrors.AlreadyExists("inventory item", item.ItemID)
	}
	r.items[item.ItemID] = copyItem(item)
	return nil
}

func (r *memInventoryRepo) Get(ctx context.Context, itemID string) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperrors.NotFound("inventory item", nil)
	}
	return copyItem(item), nil
}

func (r *memInventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ItemID]
	if !ok {
		return apperrors.NotFound("inventory item", nil)
	}
	if stored.Version != item.Version {
		return apperrors.Conflict("inventory item was modified concurrently", nil)
	}
	item.Version++
	r.items[item.ItemID] = copyItem(item)
	return nil
}

func (r *memInventoryRepo) ListByHospital(ctx context.Context, hospitalID string) ([]*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.InventoryItem{}
	for _, item := range r.items {
		if hospitalID == "" || item.HospitalID == hospitalID {
			out = append(out, copyItem(item))
		}
	}
	return out, nil
}

// memOutboxRepo records emitted events so tests can assert on them.
type memOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func newMemOutboxRepo() *memOutboxRepo {
	return &memOutboxRepo{}
}

func (r *memOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := *event
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = model.OutboxStatusPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.events = append(r.events, &e)
	return nil
}

func (r *memOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.OutboxEvent{}
	for _, e := range r.events {
		if e.Status == model.OutboxStatusPending {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Status = model.OutboxStatusProcessed
			return nil
		}
	}
	return apperrors.NotFound("outbox event", nil)
}

func (r *memOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Status = model.OutboxStatusFailed
			e.ErrorMessage = &errMsg
			return nil
		}
	}
	return apperrors.NotFound("outbox event", nil)
}

func (r *memOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.events[:0]
	var removed int64
	for _, e := range r.events {
		if e.Status == model.OutboxStatusProcessed && e.CreatedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return removed, nil
}

// eventTypes returns the types of all recorded events in emission order.
func (r *memOutboxRepo) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}
