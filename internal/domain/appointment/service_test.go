package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

// -- Mock Repository --

type mockRepo struct {
	appts  map[uuid.UUID]*Appointment
	writes int
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.writes++
	a.ID = uuid.New()
	a.KindName = a.Kind.String()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "appointment not found")
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	m.writes++
	if _, ok := m.appts[a.ID]; !ok {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	a.KindName = a.Kind.String()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.writes++
	if _, ok := m.appts[id]; !ok {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByStaff(_ context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.StaffID == staffID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) HasCollision(_ context.Context, staffID uuid.UUID, scheduledAt time.Time, excludeID uuid.UUID) (bool, error) {
	for _, a := range m.appts {
		if a.ID != excludeID && a.StaffID == staffID && a.ScheduledAt.Equal(scheduledAt) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.appts[id]
	return ok, nil
}

func (m *mockRepo) CountByPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	count := 0
	for _, a := range m.appts {
		if a.PatientID == patientID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) CountByStaff(_ context.Context, staffID uuid.UUID) (int, error) {
	count := 0
	for _, a := range m.appts {
		if a.StaffID == staffID {
			count++
		}
	}
	return count, nil
}

// mockDirectory backs both PatientDirectory and StaffDirectory.
type mockDirectory struct {
	ids       map[uuid.UUID]bool
	byAccount map[uuid.UUID]uuid.UUID
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		ids:       make(map[uuid.UUID]bool),
		byAccount: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *mockDirectory) add(accountID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.ids[id] = true
	if accountID != uuid.Nil {
		m.byAccount[accountID] = id
	}
	return id
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.ids[id], nil
}

func (m *mockDirectory) IDByAccount(_ context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	id, ok := m.byAccount[accountID]
	if !ok {
		return uuid.Nil, apperr.New(apperr.Forbidden, "caller has no linked record")
	}
	return id, nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepo
	patients *mockDirectory
	staff    *mockDirectory
}

func newFixture() *fixture {
	repo := newMockRepo()
	patients := newMockDirectory()
	staff := newMockDirectory()
	return &fixture{
		svc:      NewService(repo, patients, staff),
		repo:     repo,
		patients: patients,
		staff:    staff,
	}
}

func adminCtx() context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{AccountID: uuid.New(), Role: auth.RoleAdmin})
}

func identCtx(accountID uuid.UUID, role auth.Role) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{AccountID: accountID, Role: role})
}

var slot = time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

func TestCreate(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)

	a, err := f.svc.Create(adminCtx(), CreateInput{
		PatientID:   patientID,
		StaffID:     staffID,
		ScheduledAt: slot,
		Kind:        KindInPerson,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if a.KindName != "in_person" {
		t.Errorf("expected kind name in_person, got %s", a.KindName)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)

	tests := []struct {
		name string
		in   CreateInput
		kind apperr.Kind
	}{
		{"missing patient", CreateInput{StaffID: staffID, ScheduledAt: slot, Kind: KindInPerson}, apperr.MissingField},
		{"missing staff", CreateInput{PatientID: patientID, ScheduledAt: slot, Kind: KindInPerson}, apperr.MissingField},
		{"missing time", CreateInput{PatientID: patientID, StaffID: staffID, Kind: KindInPerson}, apperr.MissingField},
		{"bad kind", CreateInput{PatientID: patientID, StaffID: staffID, ScheduledAt: slot, Kind: Kind(3)}, apperr.InvalidValue},
		{"unknown patient", CreateInput{PatientID: uuid.New(), StaffID: staffID, ScheduledAt: slot, Kind: KindInPerson}, apperr.NotFound},
		{"unknown staff", CreateInput{PatientID: patientID, StaffID: uuid.New(), ScheduledAt: slot, Kind: KindInPerson}, apperr.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(adminCtx(), tt.in)
			if !apperr.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestCreate_SchedulingCollision(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	otherPatient := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)

	first := CreateInput{PatientID: patientID, StaffID: staffID, ScheduledAt: slot, Kind: KindInPerson}
	if _, err := f.svc.Create(adminCtx(), first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := CreateInput{PatientID: otherPatient, StaffID: staffID, ScheduledAt: slot, Kind: KindTelemedicine}
	_, err := f.svc.Create(adminCtx(), second)
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}

	// A different time slot for the same staff member is fine.
	second.ScheduledAt = slot.Add(time.Hour)
	if _, err := f.svc.Create(adminCtx(), second); err != nil {
		t.Fatalf("different slot: %v", err)
	}
}

func TestCreate_StaffMustBookForSelf(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)

	account := uuid.New()
	ownStaffID := f.staff.add(account)
	otherStaffID := f.staff.add(uuid.Nil)
	ctx := identCtx(account, auth.RolePhysician)

	writesBefore := f.repo.writes
	_, err := f.svc.Create(ctx, CreateInput{
		PatientID:   patientID,
		StaffID:     otherStaffID,
		ScheduledAt: slot,
		Kind:        KindInPerson,
	})
	if !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	if f.repo.writes != writesBefore {
		t.Error("a forbidden create must not write")
	}

	if _, err := f.svc.Create(ctx, CreateInput{
		PatientID:   patientID,
		StaffID:     ownStaffID,
		ScheduledAt: slot,
		Kind:        KindInPerson,
	}); err != nil {
		t.Fatalf("own booking: %v", err)
	}
}

func TestGet_OwnershipScoping(t *testing.T) {
	f := newFixture()

	patientAccount := uuid.New()
	patientID := f.patients.add(patientAccount)
	otherPatientID := f.patients.add(uuid.Nil)
	staffAccount := uuid.New()
	staffID := f.staff.add(staffAccount)
	otherStaffID := f.staff.add(uuid.Nil)

	own := &Appointment{PatientID: patientID, StaffID: staffID, ScheduledAt: slot, Kind: KindInPerson}
	if err := f.repo.Create(context.Background(), own); err != nil {
		t.Fatalf("seed: %v", err)
	}
	foreign := &Appointment{PatientID: otherPatientID, StaffID: otherStaffID, ScheduledAt: slot, Kind: KindInPerson}
	if err := f.repo.Create(context.Background(), foreign); err != nil {
		t.Fatalf("seed: %v", err)
	}

	patientCtx := identCtx(patientAccount, auth.RolePatient)
	if _, err := f.svc.Get(patientCtx, own.ID); err != nil {
		t.Errorf("patient reading own appointment: %v", err)
	}
	if _, err := f.svc.Get(patientCtx, foreign.ID); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("patient reading foreign appointment: expected Forbidden, got %v", err)
	}
	if _, err := f.svc.Get(patientCtx, uuid.New()); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("absent appointment: expected NotFound, got %v", err)
	}

	physicianCtx := identCtx(staffAccount, auth.RolePhysician)
	if _, err := f.svc.Get(physicianCtx, own.ID); err != nil {
		t.Errorf("physician reading own appointment: %v", err)
	}
	if _, err := f.svc.Get(physicianCtx, foreign.ID); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("physician reading foreign appointment: expected Forbidden, got %v", err)
	}

	if _, err := f.svc.Get(adminCtx(), foreign.ID); err != nil {
		t.Errorf("admin read: %v", err)
	}
}

func TestListByPatient_Scoped(t *testing.T) {
	f := newFixture()

	patientAccount := uuid.New()
	patientID := f.patients.add(patientAccount)
	otherPatientID := f.patients.add(uuid.Nil)

	ctx := identCtx(patientAccount, auth.RolePatient)
	if _, _, err := f.svc.ListByPatient(ctx, patientID, 20, 0); err != nil {
		t.Errorf("own list: %v", err)
	}
	if _, _, err := f.svc.ListByPatient(ctx, otherPatientID, 20, 0); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("foreign list: expected Forbidden, got %v", err)
	}
}

func TestUpdate_SelfSlotAndCollision(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)

	first, err := f.svc.Create(adminCtx(), CreateInput{PatientID: patientID, StaffID: staffID, ScheduledAt: slot, Kind: KindInPerson})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	otherSlot := slot.Add(2 * time.Hour)
	second, err := f.svc.Create(adminCtx(), CreateInput{PatientID: patientID, StaffID: staffID, ScheduledAt: otherSlot, Kind: KindInPerson})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Re-saving the same slot is not a collision with itself.
	same := first.ScheduledAt
	if _, err := f.svc.Update(adminCtx(), first.ID, UpdateInput{ScheduledAt: &same}); err != nil {
		t.Errorf("own slot: %v", err)
	}

	// Moving onto the other appointment's slot is.
	taken := second.ScheduledAt
	if _, err := f.svc.Update(adminCtx(), first.ID, UpdateInput{ScheduledAt: &taken}); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("taken slot: expected Conflict, got %v", err)
	}
}

func TestUpdate_StaffCannotReassign(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)

	account := uuid.New()
	ownStaffID := f.staff.add(account)
	otherStaffID := f.staff.add(uuid.Nil)
	ctx := identCtx(account, auth.RolePhysician)

	a, err := f.svc.Create(ctx, CreateInput{PatientID: patientID, StaffID: ownStaffID, ScheduledAt: slot, Kind: KindInPerson})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := f.svc.Update(ctx, a.ID, UpdateInput{StaffID: &otherStaffID}); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("reassign: expected Forbidden, got %v", err)
	}

	// A foreign appointment is untouchable even without reassignment.
	foreign := &Appointment{PatientID: patientID, StaffID: otherStaffID, ScheduledAt: slot.Add(time.Hour), Kind: KindInPerson}
	if err := f.repo.Create(context.Background(), foreign); err != nil {
		t.Fatalf("seed: %v", err)
	}
	kind := KindTelemedicine
	if _, err := f.svc.Update(ctx, foreign.ID, UpdateInput{Kind: &kind}); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("foreign update: expected Forbidden, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)

	a, err := f.svc.Create(adminCtx(), CreateInput{PatientID: patientID, StaffID: staffID, ScheduledAt: slot, Kind: KindInPerson})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.svc.Delete(adminCtx(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Delete(adminCtx(), a.ID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("second delete: expected NotFound, got %v", err)
	}
}
