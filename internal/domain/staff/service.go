package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

// ReferenceCounter reports how many rows of a referencing collection
// still point at a staff member. Satisfied by the appointment and
// clinical note repositories.
type ReferenceCounter interface {
	CountByStaff(ctx context.Context, staffID uuid.UUID) (int, error)
}

type Service struct {
	repo         Repository
	appointments ReferenceCounter
	notes        ReferenceCounter
}

func NewService(repo Repository, appointments, notes ReferenceCounter) *Service {
	return &Service{repo: repo, appointments: appointments, notes: notes}
}

// Get returns one staff member. Physicians and nurses may only read
// their own linked row.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Staff, error) {
	ident, err := auth.MustIdentity(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ident.Role.IsStaff() {
		if st.AccountID == nil || *st.AccountID != ident.AccountID {
			return nil, apperr.New(apperr.Forbidden, "staff may only read their own record")
		}
	}
	return st, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, term string, limit, offset int) ([]*Staff, int, error) {
	if term == "" {
		return nil, 0, apperr.New(apperr.MissingField, "search term is required")
	}
	return s.repo.Search(ctx, term, limit, offset)
}

func (s *Service) Stats(ctx context.Context) ([]JobTitleStats, error) {
	return s.repo.Stats(ctx)
}

// Create registers a staff member. A physician or nurse caller's
// record is linked to their own account; admins create unlinked rows.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Staff, error) {
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
	if !in.JobTitle.Valid() {
		return nil, apperr.New(apperr.InvalidValue, "job_title must be 1 (physician), 2 (nurse), 3 (technician) or 4 (administrator)")
	}

	st := &Staff{
		Name:          in.Name,
		TaxID:         in.TaxID,
		JobTitle:      in.JobTitle,
		SpecialtyID:   in.SpecialtyID,
		LicenseNumber: in.LicenseNumber,
	}
	if ident.Role.IsStaff() {
		accountID := ident.AccountID
		st.AccountID = &accountID
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Update applies a partial update. Fields left nil are unchanged.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Staff, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.New(apperr.InvalidValue, "name cannot be empty")
		}
		st.Name = *in.Name
	}
	if in.TaxID != nil {
		if *in.TaxID == "" {
			return nil, apperr.New(apperr.InvalidValue, "tax_id cannot be empty")
		}
		st.TaxID = *in.TaxID
	}
	if in.JobTitle != nil {
		if !in.JobTitle.Valid() {
			return nil, apperr.New(apperr.InvalidValue, "job_title must be 1 (physician), 2 (nurse), 3 (technician) or 4 (administrator)")
		}
		st.JobTitle = *in.JobTitle
	}
	if in.SpecialtyID != nil {
		st.SpecialtyID = in.SpecialtyID
	}
	if in.LicenseNumber != nil {
		st.LicenseNumber = in.LicenseNumber
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a staff member. Blocked while appointments or
// clinical notes still reference the row.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	apptCount, err := s.appointments.CountByStaff(ctx, id)
	if err != nil {
		return err
	}
	if apptCount > 0 {
		return apperr.New(apperr.Conflict, "staff member has %d appointment(s) and cannot be deleted", apptCount)
	}

	noteCount, err := s.notes.CountByStaff(ctx, id)
	if err != nil {
		return err
	}
	if noteCount > 0 {
		return apperr.New(apperr.Conflict, "staff member has %d clinical note(s) and cannot be deleted", noteCount)
	}

	return s.repo.Delete(ctx, id)
}
