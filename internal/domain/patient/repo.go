package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error)

	// IDByAccount resolves the patient row linked to an account. Used
	// by ownership checks in other services.
	IDByAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
