package note

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
	notes map[uuid.UUID]*ClinicalNote
}

func newMockRepo() *mockRepo {
	return &mockRepo{notes: make(map[uuid.UUID]*ClinicalNote)}
}

func (m *mockRepo) Create(_ context.Context, n *ClinicalNote) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	m.notes[n.ID] = n
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*ClinicalNote, error) {
	n, ok := m.notes[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "clinical note not found")
	}
	return n, nil
}

func (m *mockRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*ClinicalNote, error) {
	for _, n := range m.notes {
		if n.AppointmentID != nil && *n.AppointmentID == appointmentID {
			return n, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "clinical note not found")
}

func (m *mockRepo) Update(_ context.Context, n *ClinicalNote) error {
	if _, ok := m.notes[n.ID]; !ok {
		return apperr.New(apperr.NotFound, "clinical note not found")
	}
	m.notes[n.ID] = n
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.notes[id]; !ok {
		return apperr.New(apperr.NotFound, "clinical note not found")
	}
	delete(m.notes, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*ClinicalNote, int, error) {
	var result []*ClinicalNote
	for _, n := range m.notes {
		result = append(result, n)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListToday(_ context.Context, limit, offset int) ([]*ClinicalNote, int, error) {
	var result []*ClinicalNote
	today := time.Now().Format("2006-01-02")
	for _, n := range m.notes {
		if n.CreatedAt.Format("2006-01-02") == today {
			result = append(result, n)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	var result []*ClinicalNote
	for _, n := range m.notes {
		if n.PatientID == patientID {
			result = append(result, n)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByStaff(_ context.Context, staffID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	var result []*ClinicalNote
	for _, n := range m.notes {
		if n.StaffID == staffID {
			result = append(result, n)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) HasNoteForAppointment(_ context.Context, appointmentID, excludeID uuid.UUID) (bool, error) {
	for _, n := range m.notes {
		if n.ID != excludeID && n.AppointmentID != nil && *n.AppointmentID == appointmentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) CountByStaff(_ context.Context, staffID uuid.UUID) (int, error) {
	count := 0
	for _, n := range m.notes {
		if n.StaffID == staffID {
			count++
		}
	}
	return count, nil
}

// mockDirectory backs the patient, staff and appointment directories.
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
	svc          *Service
	repo         *mockRepo
	patients     *mockDirectory
	staff        *mockDirectory
	appointments *mockDirectory
}

func newFixture() *fixture {
	repo := newMockRepo()
	patients := newMockDirectory()
	staff := newMockDirectory()
	appointments := newMockDirectory()
	return &fixture{
		svc:          NewService(repo, patients, staff, appointments),
		repo:         repo,
		patients:     patients,
		staff:        staff,
		appointments: appointments,
	}
}

func adminCtx() context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{AccountID: uuid.New(), Role: auth.RoleAdmin})
}

func identCtx(accountID uuid.UUID, role auth.Role) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{AccountID: accountID, Role: role})
}

func TestCreate(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)
	apptID := f.appointments.add(uuid.Nil)

	n, err := f.svc.Create(adminCtx(), CreateInput{
		PatientID:     patientID,
		StaffID:       staffID,
		AppointmentID: &apptID,
		Observations:  "stable, no fever",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)
	unknownAppt := uuid.New()

	tests := []struct {
		name string
		in   CreateInput
		kind apperr.Kind
	}{
		{"missing patient", CreateInput{StaffID: staffID, Observations: "x"}, apperr.MissingField},
		{"missing staff", CreateInput{PatientID: patientID, Observations: "x"}, apperr.MissingField},
		{"missing observations", CreateInput{PatientID: patientID, StaffID: staffID}, apperr.MissingField},
		{"unknown patient", CreateInput{PatientID: uuid.New(), StaffID: staffID, Observations: "x"}, apperr.NotFound},
		{"unknown staff", CreateInput{PatientID: patientID, StaffID: uuid.New(), Observations: "x"}, apperr.NotFound},
		{"unknown appointment", CreateInput{PatientID: patientID, StaffID: staffID, AppointmentID: &unknownAppt, Observations: "x"}, apperr.NotFound},
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

func TestCreate_OneNotePerAppointment(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)
	apptID := f.appointments.add(uuid.Nil)

	first := CreateInput{PatientID: patientID, StaffID: staffID, AppointmentID: &apptID, Observations: "first"}
	if _, err := f.svc.Create(adminCtx(), first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := CreateInput{PatientID: patientID, StaffID: staffID, AppointmentID: &apptID, Observations: "second"}
	_, err := f.svc.Create(adminCtx(), second)
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}

	// Unlinked notes are not limited.
	third := CreateInput{PatientID: patientID, StaffID: staffID, Observations: "third"}
	if _, err := f.svc.Create(adminCtx(), third); err != nil {
		t.Fatalf("unlinked create: %v", err)
	}
}

func TestCreate_PhysicianMustSignAsSelf(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)

	account := uuid.New()
	ownStaffID := f.staff.add(account)
	otherStaffID := f.staff.add(uuid.Nil)
	ctx := identCtx(account, auth.RolePhysician)

	_, err := f.svc.Create(ctx, CreateInput{PatientID: patientID, StaffID: otherStaffID, Observations: "x"})
	if !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	if _, err := f.svc.Create(ctx, CreateInput{PatientID: patientID, StaffID: ownStaffID, Observations: "x"}); err != nil {
		t.Fatalf("own note: %v", err)
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

	own := &ClinicalNote{PatientID: patientID, StaffID: staffID, Observations: "own"}
	if err := f.repo.Create(context.Background(), own); err != nil {
		t.Fatalf("seed: %v", err)
	}
	foreign := &ClinicalNote{PatientID: otherPatientID, StaffID: otherStaffID, Observations: "foreign"}
	if err := f.repo.Create(context.Background(), foreign); err != nil {
		t.Fatalf("seed: %v", err)
	}

	patientCtx := identCtx(patientAccount, auth.RolePatient)
	if _, err := f.svc.Get(patientCtx, own.ID); err != nil {
		t.Errorf("patient reading own note: %v", err)
	}
	if _, err := f.svc.Get(patientCtx, foreign.ID); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("patient reading foreign note: expected Forbidden, got %v", err)
	}

	physicianCtx := identCtx(staffAccount, auth.RolePhysician)
	if _, err := f.svc.Get(physicianCtx, own.ID); err != nil {
		t.Errorf("physician reading own note: %v", err)
	}
	if _, err := f.svc.Get(physicianCtx, foreign.ID); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("physician reading foreign note: expected Forbidden, got %v", err)
	}

	if _, err := f.svc.Get(adminCtx(), foreign.ID); err != nil {
		t.Errorf("admin read: %v", err)
	}
	if _, err := f.svc.Get(adminCtx(), uuid.New()); !apperr.Is(err, apperr.NotFound) {
		t.Error("absent note must be NotFound")
	}
}

func TestUpdate_RelinkAppointment(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)
	firstAppt := f.appointments.add(uuid.Nil)
	secondAppt := f.appointments.add(uuid.Nil)

	linked, err := f.svc.Create(adminCtx(), CreateInput{PatientID: patientID, StaffID: staffID, AppointmentID: &firstAppt, Observations: "x"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	other, err := f.svc.Create(adminCtx(), CreateInput{PatientID: patientID, StaffID: staffID, AppointmentID: &secondAppt, Observations: "y"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Re-saving its own appointment link is not a conflict.
	if _, err := f.svc.Update(adminCtx(), linked.ID, UpdateInput{AppointmentID: &firstAppt}); err != nil {
		t.Errorf("own link: %v", err)
	}

	// Moving onto another note's appointment is.
	if _, err := f.svc.Update(adminCtx(), linked.ID, UpdateInput{AppointmentID: &secondAppt}); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("taken link: expected Conflict, got %v", err)
	}
	_ = other
}

func TestUpdate_PhysicianOwnNotesOnly(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)

	account := uuid.New()
	ownStaffID := f.staff.add(account)
	otherStaffID := f.staff.add(uuid.Nil)
	ctx := identCtx(account, auth.RolePhysician)

	own, err := f.svc.Create(ctx, CreateInput{PatientID: patientID, StaffID: ownStaffID, Observations: "own"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	foreign := &ClinicalNote{PatientID: patientID, StaffID: otherStaffID, Observations: "foreign"}
	if err := f.repo.Create(context.Background(), foreign); err != nil {
		t.Fatalf("seed: %v", err)
	}

	obs := "updated"
	if _, err := f.svc.Update(ctx, own.ID, UpdateInput{Observations: &obs}); err != nil {
		t.Errorf("own update: %v", err)
	}
	if _, err := f.svc.Update(ctx, foreign.ID, UpdateInput{Observations: &obs}); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("foreign update: expected Forbidden, got %v", err)
	}
	if _, err := f.svc.Update(ctx, own.ID, UpdateInput{StaffID: &otherStaffID}); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("reassign: expected Forbidden, got %v", err)
	}
}

func TestGetByAppointment(t *testing.T) {
	f := newFixture()
	patientID := f.patients.add(uuid.Nil)
	staffID := f.staff.add(uuid.Nil)
	apptID := f.appointments.add(uuid.Nil)

	created, err := f.svc.Create(adminCtx(), CreateInput{PatientID: patientID, StaffID: staffID, AppointmentID: &apptID, Observations: "x"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := f.svc.GetByAppointment(adminCtx(), apptID)
	if err != nil {
		t.Fatalf("get by appointment: %v", err)
	}
	if n.ID != created.ID {
		t.Errorf("expected note %s, got %s", created.ID, n.ID)
	}

	if _, err := f.svc.GetByAppointment(adminCtx(), uuid.New()); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
