package note

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const noteCols = `n.id, n.patient_id, n.staff_id, n.appointment_id, n.observations,
	p.name, p.tax_id, s.name, n.created_at, n.updated_at`

const noteFrom = ` FROM clinical_notes n
	JOIN patients p ON p.id = n.patient_id
	JOIN staff s ON s.id = n.staff_id `

func (r *repoPG) Create(ctx context.Context, n *ClinicalNote) error {
	n.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinical_notes (id, patient_id, staff_id, appointment_id, observations)
		VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.PatientID, n.StaffID, n.AppointmentID, n.Observations,
	)
	if err != nil {
		return translateWriteErr(err)
	}
	return r.refresh(ctx, n)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	return scanNote(r.pool.QueryRow(ctx, `SELECT `+noteCols+noteFrom+`WHERE n.id = $1`, id))
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*ClinicalNote, error) {
	return scanNote(r.pool.QueryRow(ctx,
		`SELECT `+noteCols+noteFrom+`WHERE n.appointment_id = $1`, appointmentID))
}

func (r *repoPG) Update(ctx context.Context, n *ClinicalNote) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clinical_notes SET
			patient_id = $2, staff_id = $3, appointment_id = $4, observations = $5, updated_at = NOW()
		WHERE id = $1`,
		n.ID, n.PatientID, n.StaffID, n.AppointmentID, n.Observations,
	)
	if err != nil {
		return translateWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "clinical note not found")
	}
	return r.refresh(ctx, n)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clinical_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "clinical note not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*ClinicalNote, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_notes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteCols+noteFrom+`ORDER BY n.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectNotes(rows, total)
}

func (r *repoPG) ListToday(ctx context.Context, limit, offset int) ([]*ClinicalNote, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_notes WHERE created_at::date = CURRENT_DATE`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteCols+noteFrom+`
		WHERE n.created_at::date = CURRENT_DATE
		ORDER BY n.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectNotes(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_notes WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteCols+noteFrom+`WHERE n.patient_id = $1 ORDER BY n.created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectNotes(rows, total)
}

func (r *repoPG) ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_notes WHERE staff_id = $1`, staffID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteCols+noteFrom+`WHERE n.staff_id = $1 ORDER BY n.created_at DESC LIMIT $2 OFFSET $3`,
		staffID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectNotes(rows, total)
}

func (r *repoPG) HasNoteForAppointment(ctx context.Context, appointmentID, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM clinical_notes
			WHERE appointment_id = $1 AND id <> $2
		)`,
		appointmentID, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *repoPG) CountByStaff(ctx context.Context, staffID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_notes WHERE staff_id = $1`, staffID).Scan(&count)
	return count, err
}

func (r *repoPG) refresh(ctx context.Context, n *ClinicalNote) error {
	loaded, err := r.GetByID(ctx, n.ID)
	if err != nil {
		return err
	}
	*n = *loaded
	return nil
}

func translateWriteErr(err error) error {
	switch {
	case db.IsUniqueViolation(err, "clinical_notes_appointment_id_key"):
		return apperr.New(apperr.Conflict, "appointment already has a clinical note")
	case db.IsForeignKeyViolation(err):
		return apperr.New(apperr.NotFound, "referenced patient, staff member or appointment not found")
	}
	return err
}

func scanNote(row pgx.Row) (*ClinicalNote, error) {
	var n ClinicalNote
	err := row.Scan(&n.ID, &n.PatientID, &n.StaffID, &n.AppointmentID, &n.Observations,
		&n.PatientName, &n.PatientTaxID, &n.StaffName, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "clinical note not found")
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func collectNotes(rows pgx.Rows, total int) ([]*ClinicalNote, int, error) {
	var notes []*ClinicalNote
	for rows.Next() {
		var n ClinicalNote
		if err := rows.Scan(&n.ID, &n.PatientID, &n.StaffID, &n.AppointmentID, &n.Observations,
			&n.PatientName, &n.PatientTaxID, &n.StaffName, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, err
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}
