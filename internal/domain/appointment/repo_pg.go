package appointment

import (
	"context"
	"errors"
	"time"

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

const apptCols = `a.id, a.patient_id, a.staff_id, a.scheduled_at, a.kind, a.description,
	p.name, p.tax_id, s.name, a.created_at, a.updated_at`

const apptFrom = ` FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN staff s ON s.id = a.staff_id `

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, staff_id, scheduled_at, kind, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.PatientID, a.StaffID, a.ScheduledAt, a.Kind, a.Description,
	)
	if err != nil {
		return translateWriteErr(err)
	}
	return r.refresh(ctx, a)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+apptFrom+`WHERE a.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET
			patient_id = $2, staff_id = $3, scheduled_at = $4, kind = $5, description = $6, updated_at = NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.StaffID, a.ScheduledAt, a.Kind, a.Description,
	)
	if err != nil {
		return translateWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	return r.refresh(ctx, a)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.New(apperr.Conflict, "appointment has a linked clinical note and cannot be deleted")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+apptCols+apptFrom+`ORDER BY a.scheduled_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+apptCols+apptFrom+`WHERE a.patient_id = $1 ORDER BY a.scheduled_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE staff_id = $1`, staffID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+apptCols+apptFrom+`WHERE a.staff_id = $1 ORDER BY a.scheduled_at DESC LIMIT $2 OFFSET $3`,
		staffID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) HasCollision(ctx context.Context, staffID uuid.UUID, scheduledAt time.Time, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE staff_id = $1 AND scheduled_at = $2 AND id <> $3
		)`,
		staffID, scheduledAt, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&count)
	return count, err
}

func (r *repoPG) CountByStaff(ctx context.Context, staffID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE staff_id = $1`, staffID).Scan(&count)
	return count, err
}

func (r *repoPG) refresh(ctx context.Context, a *Appointment) error {
	loaded, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *loaded
	return nil
}

// translateWriteErr maps constraint violations to the policy errors
// the pre-checks would have raised. The constraint is the correctness
// backstop for the check-then-insert race.
func translateWriteErr(err error) error {
	switch {
	case db.IsUniqueViolation(err, "appointments_staff_id_scheduled_at_key"):
		return apperr.New(apperr.Conflict, "staff member already has an appointment at that time")
	case db.IsForeignKeyViolation(err):
		return apperr.New(apperr.NotFound, "referenced patient or staff member not found")
	}
	return err
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.StaffID, &a.ScheduledAt, &a.Kind, &a.Description,
		&a.PatientName, &a.PatientTaxID, &a.StaffName, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "appointment not found")
	}
	if err != nil {
		return nil, err
	}
	a.KindName = a.Kind.String()
	return &a, nil
}

func collectAppts(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.StaffID, &a.ScheduledAt, &a.Kind, &a.Description,
			&a.PatientName, &a.PatientTaxID, &a.StaffName, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		a.KindName = a.Kind.String()
		appts = append(appts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}
