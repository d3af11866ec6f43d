package note

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *ClinicalNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalNote, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*ClinicalNote, error)
	Update(ctx context.Context, n *ClinicalNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*ClinicalNote, int, error)
	ListToday(ctx context.Context, limit, offset int) ([]*ClinicalNote, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error)

	// HasNoteForAppointment reports whether a note other than
	// excludeID already references the appointment.
	HasNoteForAppointment(ctx context.Context, appointmentID, excludeID uuid.UUID) (bool, error)

	// CountByStaff serves the staff delete guard.
	CountByStaff(ctx context.Context, staffID uuid.UUID) (int, error)
}
