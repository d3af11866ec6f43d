package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. account_id links the record to
// the patient-role account that owns it; unlinked records are
// administrative entries.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	AccountID *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	Name      string     `db:"name" json:"name"`
	BirthDate time.Time  `db:"birth_date" json:"birth_date"`
	TaxID     string     `db:"tax_id" json:"tax_id"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateInput is the create request payload. birth_date is a
// YYYY-MM-DD string.
type CreateInput struct {
	Name      string  `json:"name"`
	BirthDate string  `json:"birth_date"`
	TaxID     string  `json:"tax_id"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// UpdateInput carries partial updates. Nil means unchanged; omitting a
// field never clears it.
type UpdateInput struct {
	Name      *string `json:"name"`
	BirthDate *string `json:"birth_date"`
	TaxID     *string `json:"tax_id"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}
