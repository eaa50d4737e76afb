package addresses

import "context"

type Repository interface {
	Create(ctx context.Context, a Address) error
	Update(ctx context.Context, a Address) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Address, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]Address, error)
}
