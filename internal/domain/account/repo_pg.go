package account

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

const acctCols = `id, email, password_hash, role, created_at`

func (r *repoPG) Create(ctx context.Context, acct *Account) error {
	acct.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		acct.ID, acct.Email, acct.PasswordHash, acct.Role,
	).Scan(&acct.CreatedAt)
	if db.IsUniqueViolation(err) {
		return apperr.New(apperr.Conflict, "email %s is already registered", acct.Email)
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+acctCols+` FROM accounts WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+acctCols+` FROM accounts WHERE email = $1`, email))
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "account not found")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
