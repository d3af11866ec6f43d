package note

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalNote maps to the clinical_notes table plus joined display
// fields. A non-null appointment carries at most one note.
type ClinicalNote struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	StaffID       uuid.UUID  `db:"staff_id" json:"staff_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Observations  string     `db:"observations" json:"observations"`
	PatientName   string     `db:"patient_name" json:"patient_name"`
	PatientTaxID  string     `db:"patient_tax_id" json:"patient_tax_id"`
	StaffName     string     `db:"staff_name" json:"staff_name"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateInput is the create request payload.
type CreateInput struct {
	PatientID     uuid.UUID  `json:"patient_id"`
	StaffID       uuid.UUID  `json:"staff_id"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Observations  string     `json:"observations"`
}

// UpdateInput carries partial updates. Nil means unchanged; a linked
// appointment cannot be detached by omission.
type UpdateInput struct {
	PatientID     *uuid.UUID `json:"patient_id"`
	StaffID       *uuid.UUID `json:"staff_id"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Observations  *string    `json:"observations"`
}
