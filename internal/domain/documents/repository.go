package documents

import "context"

type Repository interface {
	Create(ctx context.Context, d Document) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Document, error)
	// FindByOwnerAndType devuelve found=false si el usuario no tiene documento de ese tipo.
	FindByOwnerAndType(ctx context.Context, ownerID string, t DocType) (Document, bool, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]Document, error)
}
