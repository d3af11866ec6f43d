package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the appointment modality.
type Kind int16

const (
	KindInPerson Kind = iota + 1
	KindTelemedicine
)

var kindNames = map[Kind]string{
	KindInPerson:     "in_person",
	KindTelemedicine: "telemedicine",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Appointment maps to the appointments table plus joined display
// fields. At most one appointment per (staff_id, scheduled_at).
type Appointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	StaffID      uuid.UUID `db:"staff_id" json:"staff_id"`
	ScheduledAt  time.Time `db:"scheduled_at" json:"scheduled_at"`
	Kind         Kind      `db:"kind" json:"kind"`
	KindName     string    `db:"-" json:"kind_name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	PatientName  string    `db:"patient_name" json:"patient_name"`
	PatientTaxID string    `db:"patient_tax_id" json:"patient_tax_id"`
	StaffName    string    `db:"staff_name" json:"staff_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreateInput is the create request payload.
type CreateInput struct {
	PatientID   uuid.UUID `json:"patient_id"`
	StaffID     uuid.UUID `json:"staff_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Kind        Kind      `json:"kind"`
	Description *string   `json:"description"`
}

// UpdateInput carries partial updates. Nil means unchanged.
type UpdateInput struct {
	PatientID   *uuid.UUID `json:"patient_id"`
	StaffID     *uuid.UUID `json:"staff_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Kind        *Kind      `json:"kind"`
	Description *string    `json:"description"`
}
