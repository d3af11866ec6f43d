package note

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

// AppointmentDirectory resolves appointment existence. Satisfied by
// the appointment repository.
type AppointmentDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo         Repository
	patients     PatientDirectory
	staff        StaffDirectory
	appointments AppointmentDirectory
}

func NewService(repo Repository, patients PatientDirectory, staff StaffDirectory, appointments AppointmentDirectory) *Service {
	return &Service{repo: repo, patients: patients, staff: staff, appointments: appointments}
}

func (s *Service) callerStaffID(ctx context.Context, ident auth.Identity) (uuid.UUID, error) {
	if !ident.Role.IsStaff() {
		return uuid.Nil, nil
	}
	return s.staff.IDByAccount(ctx, ident.AccountID)
}

// Get returns one note. Patients see only notes about themselves;
// physicians and nurses only notes they authored.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case ident.Role == auth.RolePatient:
		pid, err := s.patients.IDByAccount(ctx, ident.AccountID)
		if err != nil {
			return nil, err
		}
		if n.PatientID != pid {
			return nil, apperr.New(apperr.Forbidden, "patients may only read their own clinical notes")
		}
	case ident.Role.IsStaff():
		sid, err := s.staff.IDByAccount(ctx, ident.AccountID)
		if err != nil {
			return nil, err
		}
		if n.StaffID != sid {
			return nil, apperr.New(apperr.Forbidden, "staff may only read clinical notes they authored")
		}
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*ClinicalNote, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListToday(ctx context.Context, limit, offset int) ([]*ClinicalNote, int, error) {
	return s.repo.ListToday(ctx, limit, offset)
}

// ListByPatient returns a patient's notes. A patient-role caller may
// only query their own patient id.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
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
			return nil, 0, apperr.New(apperr.Forbidden, "patients may only list their own clinical notes")
		}
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// ListByStaff returns a staff member's notes. Physicians and nurses
// may only query their own staff id.
func (s *Service) ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
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
			return nil, 0, apperr.New(apperr.Forbidden, "staff may only list their own clinical notes")
		}
	}
	return s.repo.ListByStaff(ctx, staffID, limit, offset)
}

// GetByAppointment returns the single note linked to an appointment,
// or NotFound.
func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*ClinicalNote, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

// Create writes a note. Non-admin authors may only sign with their own
// staff id; a referenced appointment must exist and be note-free.
func (s *Service) Create(ctx context.Context, in CreateInput) (*ClinicalNote, error) {
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
	if in.Observations == "" {
		return nil, apperr.New(apperr.MissingField, "observations is required")
	}

	callerStaff, err := s.callerStaffID(ctx, ident)
	if err != nil {
		return nil, err
	}
	if callerStaff != uuid.Nil && in.StaffID != callerStaff {
		return nil, apperr.New(apperr.Forbidden, "staff may only create clinical notes as themselves")
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

	if in.AppointmentID != nil {
		if err := s.checkAppointmentFree(ctx, *in.AppointmentID, uuid.Nil); err != nil {
			return nil, err
		}
	}

	n := &ClinicalNote{
		PatientID:     in.PatientID,
		StaffID:       in.StaffID,
		AppointmentID: in.AppointmentID,
		Observations:  in.Observations,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Update applies a partial update. Non-admin authors may only touch
// their own notes and cannot sign them over to someone else.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*ClinicalNote, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	callerStaff, err := s.callerStaffID(ctx, ident)
	if err != nil {
		return nil, err
	}
	if callerStaff != uuid.Nil {
		if n.StaffID != callerStaff {
			return nil, apperr.New(apperr.Forbidden, "staff may only modify clinical notes they authored")
		}
		if in.StaffID != nil && *in.StaffID != callerStaff {
			return nil, apperr.New(apperr.Forbidden, "staff may not reassign clinical notes to someone else")
		}
	}

	if in.PatientID != nil {
		if ok, err := s.patients.Exists(ctx, *in.PatientID); err != nil {
			return nil, err
		} else if !ok {
			return nil, apperr.New(apperr.NotFound, "patient not found")
		}
		n.PatientID = *in.PatientID
	}
	if in.StaffID != nil {
		if ok, err := s.staff.Exists(ctx, *in.StaffID); err != nil {
			return nil, err
		} else if !ok {
			return nil, apperr.New(apperr.NotFound, "staff member not found")
		}
		n.StaffID = *in.StaffID
	}
	if in.AppointmentID != nil {
		if err := s.checkAppointmentFree(ctx, *in.AppointmentID, n.ID); err != nil {
			return nil, err
		}
		n.AppointmentID = in.AppointmentID
	}
	if in.Observations != nil {
		if *in.Observations == "" {
			return nil, apperr.New(apperr.InvalidValue, "observations cannot be empty")
		}
		n.Observations = *in.Observations
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkAppointmentFree(ctx context.Context, appointmentID, excludeNoteID uuid.UUID) error {
	if ok, err := s.appointments.Exists(ctx, appointmentID); err != nil {
		return err
	} else if !ok {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	if taken, err := s.repo.HasNoteForAppointment(ctx, appointmentID, excludeNoteID); err != nil {
		return err
	} else if taken {
		return apperr.New(apperr.Conflict, "appointment already has a clinical note")
	}
	return nil
}
