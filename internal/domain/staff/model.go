package staff

import (
	"time"

	"github.com/google/uuid"
)

// JobTitle is the professional category of a staff member.
type JobTitle int16

const (
	JobPhysician JobTitle = iota + 1
	JobNurse
	JobTechnician
	JobAdministrator
)

var jobTitleNames = map[JobTitle]string{
	JobPhysician:     "physician",
	JobNurse:         "nurse",
	JobTechnician:    "technician",
	JobAdministrator: "administrator",
}

func (j JobTitle) String() string {
	if name, ok := jobTitleNames[j]; ok {
		return name
	}
	return "unknown"
}

func (j JobTitle) Valid() bool {
	_, ok := jobTitleNames[j]
	return ok
}

// Staff maps to the staff table plus the joined specialty name.
// account_id links the row to the staff member's own account.
type Staff struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AccountID     *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	Name          string     `db:"name" json:"name"`
	TaxID         string     `db:"tax_id" json:"tax_id"`
	JobTitle      JobTitle   `db:"job_title" json:"job_title"`
	JobTitleName  string     `db:"-" json:"job_title_name"`
	SpecialtyID   *int16     `db:"specialty_id" json:"specialty_id,omitempty"`
	SpecialtyName *string    `db:"specialty_name" json:"specialty_name,omitempty"`
	LicenseNumber *string    `db:"license_number" json:"license_number,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateInput is the create request payload.
type CreateInput struct {
	Name          string   `json:"name"`
	TaxID         string   `json:"tax_id"`
	JobTitle      JobTitle `json:"job_title"`
	SpecialtyID   *int16   `json:"specialty_id"`
	LicenseNumber *string  `json:"license_number"`
}

// UpdateInput carries partial updates. Nil means unchanged.
type UpdateInput struct {
	Name          *string   `json:"name"`
	TaxID         *string   `json:"tax_id"`
	JobTitle      *JobTitle `json:"job_title"`
	SpecialtyID   *int16    `json:"specialty_id"`
	LicenseNumber *string   `json:"license_number"`
}

// JobTitleStats is one row of the staffing summary: headcount and the
// distinct specialties present for a job title.
type JobTitleStats struct {
	JobTitle     JobTitle `json:"job_title"`
	JobTitleName string   `json:"job_title_name"`
	Count        int      `json:"count"`
	Specialties  []string `json:"specialties"`
}
