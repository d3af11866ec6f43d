package staff

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

const staffCols = `s.id, s.account_id, s.name, s.tax_id, s.job_title, s.specialty_id, sp.name, s.license_number, s.created_at, s.updated_at`

const staffFrom = ` FROM staff s LEFT JOIN specialties sp ON sp.id = s.specialty_id `

func (r *repoPG) Create(ctx context.Context, st *Staff) error {
	st.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff (id, account_id, name, tax_id, job_title, specialty_id, license_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		st.ID, st.AccountID, st.Name, st.TaxID, st.JobTitle, st.SpecialtyID, st.LicenseNumber,
	)
	if err != nil {
		return translateWriteErr(err, st)
	}
	return r.refresh(ctx, st)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffCols+staffFrom+`WHERE s.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, st *Staff) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE staff SET
			name = $2, tax_id = $3, job_title = $4, specialty_id = $5, license_number = $6, updated_at = NOW()
		WHERE id = $1`,
		st.ID, st.Name, st.TaxID, st.JobTitle, st.SpecialtyID, st.LicenseNumber,
	)
	if err != nil {
		return translateWriteErr(err, st)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "staff member not found")
	}
	return r.refresh(ctx, st)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.New(apperr.Conflict, "staff member has linked records and cannot be deleted")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "staff member not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+staffCols+staffFrom+`ORDER BY s.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectStaff(rows, total)
}

func (r *repoPG) Search(ctx context.Context, term string, limit, offset int) ([]*Staff, int, error) {
	pattern := "%" + term + "%"
	const where = `WHERE s.name ILIKE $1 OR sp.name ILIKE $1 OR s.license_number ILIKE $1`

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)`+staffFrom+where, pattern,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+staffCols+staffFrom+where+` ORDER BY s.created_at DESC LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectStaff(rows, total)
}

func (r *repoPG) Stats(ctx context.Context) ([]JobTitleStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.job_title, COUNT(*),
			ARRAY_REMOVE(ARRAY_AGG(DISTINCT sp.name), NULL)
		FROM staff s
		LEFT JOIN specialties sp ON sp.id = s.specialty_id
		GROUP BY s.job_title
		ORDER BY s.job_title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []JobTitleStats
	for rows.Next() {
		var st JobTitleStats
		if err := rows.Scan(&st.JobTitle, &st.Count, &st.Specialties); err != nil {
			return nil, err
		}
		st.JobTitleName = st.JobTitle.String()
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (r *repoPG) IDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT id FROM staff WHERE account_id = $1`, accountID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, apperr.New(apperr.Forbidden, "caller has no linked staff record")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM staff WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// refresh reloads the row so joined display fields are populated after
// a write.
func (r *repoPG) refresh(ctx context.Context, st *Staff) error {
	loaded, err := r.GetByID(ctx, st.ID)
	if err != nil {
		return err
	}
	*st = *loaded
	return nil
}

func translateWriteErr(err error, st *Staff) error {
	switch {
	case db.IsUniqueViolation(err, "staff_tax_id_key"):
		return apperr.New(apperr.Conflict, "tax id %s is already registered", st.TaxID)
	case db.IsUniqueViolation(err, "staff_license_number_key"):
		return apperr.New(apperr.Conflict, "license number is already registered")
	case db.IsUniqueViolation(err, "staff_account_id_key"):
		return apperr.New(apperr.Conflict, "account already has a linked staff record")
	case db.IsForeignKeyViolation(err):
		return apperr.New(apperr.NotFound, "specialty not found")
	}
	return err
}

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(&s.ID, &s.AccountID, &s.Name, &s.TaxID, &s.JobTitle, &s.SpecialtyID, &s.SpecialtyName, &s.LicenseNumber, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "staff member not found")
	}
	if err != nil {
		return nil, err
	}
	s.JobTitleName = s.JobTitle.String()
	return &s, nil
}

func collectStaff(rows pgx.Rows, total int) ([]*Staff, int, error) {
	var staff []*Staff
	for rows.Next() {
		var s Staff
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Name, &s.TaxID, &s.JobTitle, &s.SpecialtyID, &s.SpecialtyName, &s.LicenseNumber, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		s.JobTitleName = s.JobTitle.String()
		staff = append(staff, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return staff, total, nil
}
