package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

// PatientDirectory resolves patient records for FK and ownership
// checks. Satisfied by the patient repository.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	IDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
}

// StaffDirectory resolves staff records for FK and ownership checks.
// Satisfied by the staff repository.
type StaffDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	IDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	staff    StaffDirectory
}

func NewService(repo Repository, patients PatientDirectory, staff StaffDirectory) *Service {
	return &Service{repo: repo, patients: patients, staff: staff}
}

// callerStaffID resolves the staff row of a physician/nurse caller.
// Returns uuid.Nil for admins, who are not bound to a staff row.
func (s *Service) callerStaffID(ctx context.Context, ident auth.Identity) (uuid.UUID, error) {
	if !ident.Role.IsStaff() {
		return uuid.Nil, nil
	}
	return s.staff.IDByAccount(ctx, ident.AccountID)
}

// Get returns one appointment. Patients see only their own; physicians
// and nurses only appointments assigned to them.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case ident.Role == auth.RolePatient:
		pid, err := s.patients.IDByAccount(ctx, ident.AccountID)
		if err != nil {
			return nil, err
		}
		if a.PatientID != pid {
			return nil, apperr.New(apperr.Forbidden, "patients may only read their own appointments")
		}
	case ident.Role.IsStaff():
		sid, err := s.staff.IDByAccount(ctx, ident.AccountID)
		if err != nil {
			return nil, err
		}
		if a.StaffID != sid {
			return nil, apperr.New(apperr.Forbidden, "staff may only read their own appointments")
		}
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListByPatient returns a patient's appointments. A patient-role
// caller may only query their own patient id.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, 0, err
	}

	if ident.Role == auth.RolePatient {
		pid, err := s.patients.IDByAccount(ctx, ident.AccountID)
		if err != nil {
			return nil, 0, err
		}
		if patientID != pid {
			return nil, 0, apperr.New(apperr.Forbidden, "patients may only list their own appointments")
		}
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// ListByStaff returns a staff member's appointments. Physicians and
// nurses may only query their own staff id.
func (s *Service) ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, 0, err
	}

	if ident.Role.IsStaff() {
		sid, err := s.staff.IDByAccount(ctx, ident.AccountID)
		if err != nil {
			return nil, 0, err
		}
		if staffID != sid {
			return nil, 0, apperr.New(apperr.Forbidden, "staff may only list their own appointments")
		}
	}
	return s.repo.ListByStaff(ctx, staffID, limit, offset)
}

// Create books an appointment. Non-admin staff may only book for
// themselves; the (staff, time) slot must be free.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if in.PatientID == uuid.Nil {
		return nil, apperr.New(apperr.MissingField, "patient_id is required")
	}
	if in.StaffID == uuid.Nil {
		return nil, apperr.New(apperr.MissingField, "staff_id is required")
	}
	if in.ScheduledAt.IsZero() {
		return nil, apperr.New(apperr.MissingField, "scheduled_at is required")
	}
	if !in.Kind.Valid() {
		return nil, apperr.New(apperr.InvalidValue, "kind must be 1 (in person) or 2 (telemedicine)")
	}

	callerStaff, err := s.callerStaffID(ctx, ident)
	if err != nil {
		return nil, err
	}
	if callerStaff != uuid.Nil && in.StaffID != callerStaff {
		return nil, apperr.New(apperr.Forbidden, "staff may only create appointments for themselves")
	}

	if ok, err := s.patients.Exists(ctx, in.PatientID); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperr.New(apperr.NotFound, "patient not found")
	}
	if ok, err := s.staff.Exists(ctx, in.StaffID); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperr.New(apperr.NotFound, "staff member not found")
	}

	if collides, err := s.repo.HasCollision(ctx, in.StaffID, in.ScheduledAt, uuid.Nil); err != nil {
		return nil, err
	} else if collides {
		return nil, apperr.New(apperr.Conflict, "staff member already has an appointment at that time")
	}

	a := &Appointment{
		PatientID:   in.PatientID,
		StaffID:     in.StaffID,
		ScheduledAt: in.ScheduledAt,
		Kind:        in.Kind,
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update applies a partial update. Non-admin staff may only touch
// their own appointments and cannot hand them to someone else. The
// collision check runs on the merged (staff, time) pair, excluding the
// appointment itself.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	callerStaff, err := s.callerStaffID(ctx, ident)
	if err != nil {
		return nil, err
	}
	if callerStaff != uuid.Nil {
		if a.StaffID != callerStaff {
			return nil, apperr.New(apperr.Forbidden, "staff may only modify their own appointments")
		}
		if in.StaffID != nil && *in.StaffID != callerStaff {
			return nil, apperr.New(apperr.Forbidden, "staff may not reassign appointments to someone else")
		}
	}

	if in.PatientID != nil {
		if ok, err := s.patients.Exists(ctx, *in.PatientID); err != nil {
			return nil, err
		} else if !ok {
			return nil, apperr.New(apperr.NotFound, "patient not found")
		}
		a.PatientID = *in.PatientID
	}
	if in.StaffID != nil {
		if ok, err := s.staff.Exists(ctx, *in.StaffID); err != nil {
			return nil, err
		} else if !ok {
			return nil, apperr.New(apperr.NotFound, "staff member not found")
		}
		a.StaffID = *in.StaffID
	}
	if in.ScheduledAt != nil {
		a.ScheduledAt = *in.ScheduledAt
	}
	if in.Kind != nil {
		if !in.Kind.Valid() {
			return nil, apperr.New(apperr.InvalidValue, "kind must be 1 (in person) or 2 (telemedicine)")
		}
		a.Kind = *in.Kind
	}
	if in.Description != nil {
		a.Description = in.Description
	}

	if collides, err := s.repo.HasCollision(ctx, a.StaffID, a.ScheduledAt, a.ID); err != nil {
		return nil, err
	} else if collides {
		return nil, apperr.New(apperr.Conflict, "staff member already has an appointment at that time")
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
