package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error)

	// HasCollision reports whether another appointment (excluding
	// excludeID) already occupies (staffID, scheduledAt).
	HasCollision(ctx context.Context, staffID uuid.UUID, scheduledAt time.Time, excludeID uuid.UUID) (bool, error)

	// Exists and the counters serve cross-resource integrity checks.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error)
	CountByStaff(ctx context.Context, staffID uuid.UUID) (int, error)
}
