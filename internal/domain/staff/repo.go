package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, st *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	Update(ctx context.Context, st *Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Staff, int, error)
	Search(ctx context.Context, term string, limit, offset int) ([]*Staff, int, error)
	Stats(ctx context.Context) ([]JobTitleStats, error)

	// IDByAccount resolves the staff row linked to an account. Used by
	// ownership checks in other services.
	IDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
