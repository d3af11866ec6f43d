package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

const birthDateLayout = "2006-01-02"

// ReferenceCounter reports how many appointments still reference a
// patient. Satisfied by the appointment repository.
type ReferenceCounter interface {
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error)
}

type Service struct {
	repo         Repository
	appointments ReferenceCounter
}

func NewService(repo Repository, appointments ReferenceCounter) *Service {
	return &Service{repo: repo, appointments: appointments}
}

// Get returns one patient. A patient-role caller may only read the
// record linked to their own account; an existing but unlinked record
// yields Forbidden, an absent one NotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ident.Role == auth.RolePatient {
		if p.AccountID == nil || *p.AccountID != ident.AccountID {
			return nil, apperr.New(apperr.Forbidden, "patients may only read their own record")
		}
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error) {
	if term == "" {
		return nil, 0, apperr.New(apperr.MissingField, "search term is required")
	}
	return s.repo.Search(ctx, term, limit, offset)
}

// Create registers a patient record. A patient-role caller's record is
// linked to their account; admins create unlinked records.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if in.Name == "" {
		return nil, apperr.New(apperr.MissingField, "name is required")
	}
	if in.TaxID == "" {
		return nil, apperr.New(apperr.MissingField, "tax_id is required")
	}
	if in.BirthDate == "" {
		return nil, apperr.New(apperr.MissingField, "birth_date is required")
	}
	birthDate, err := time.Parse(birthDateLayout, in.BirthDate)
	if err != nil {
		return nil, apperr.New(apperr.InvalidValue, "birth_date must be formatted YYYY-MM-DD")
	}

	p := &Patient{
		Name:      in.Name,
		BirthDate: birthDate,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
	}
	if ident.Role == auth.RolePatient {
		accountID := ident.AccountID
		p.AccountID = &accountID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial update. Fields left nil are unchanged.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.New(apperr.InvalidValue, "name cannot be empty")
		}
		p.Name = *in.Name
	}
	if in.BirthDate != nil {
		birthDate, err := time.Parse(birthDateLayout, *in.BirthDate)
		if err != nil {
			return nil, apperr.New(apperr.InvalidValue, "birth_date must be formatted YYYY-MM-DD")
		}
		p.BirthDate = birthDate
	}
	if in.TaxID != nil {
		if *in.TaxID == "" {
			return nil, apperr.New(apperr.InvalidValue, "tax_id cannot be empty")
		}
		p.TaxID = *in.TaxID
	}
	if in.Email != nil {
		p.Email = in.Email
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a patient. Blocked while appointments still reference
// the record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.appointments.CountByPatient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.New(apperr.Conflict, "patient has %d appointment(s) and cannot be deleted", count)
	}
	return s.repo.Delete(ctx, id)
}
