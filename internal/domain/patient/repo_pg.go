package patient

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

const patientCols = `id, account_id, name, birth_date, tax_id, email, phone, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, account_id, name, birth_date, tax_id, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.AccountID, p.Name, p.BirthDate, p.TaxID, p.Email, p.Phone,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateUnique(err, p.TaxID)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients SET
			name = $2, birth_date = $3, tax_id = $4, email = $5, phone = $6, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.BirthDate, p.TaxID, p.Email, p.Phone,
	)
	if err != nil {
		return translateUnique(err, p.TaxID)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "patient not found")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.New(apperr.Conflict, "patient has linked records and cannot be deleted")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "patient not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func (r *repoPG) Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error) {
	pattern := "%" + term + "%"
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patients WHERE name ILIKE $1 OR tax_id ILIKE $1`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+` FROM patients
		WHERE name ILIKE $1 OR tax_id ILIKE $1
		ORDER BY name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func (r *repoPG) IDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT id FROM patients WHERE account_id = $1`, accountID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, apperr.New(apperr.Forbidden, "caller has no linked patient record")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func translateUnique(err error, taxID string) error {
	if db.IsUniqueViolation(err, "patients_tax_id_key") {
		return apperr.New(apperr.Conflict, "tax id %s is already registered", taxID)
	}
	if db.IsUniqueViolation(err, "patients_account_id_key") {
		return apperr.New(apperr.Conflict, "account already has a linked patient record")
	}
	return err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.AccountID, &p.Name, &p.BirthDate, &p.TaxID, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "patient not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Name, &p.BirthDate, &p.TaxID, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}
