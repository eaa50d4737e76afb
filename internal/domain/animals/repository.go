package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Animal, error)
	List(ctx context.Context, filter ListFilter) ([]Animal, error)
	FindOne(ctx context.Context, q SearchQuery) (Animal, error)
	FolioExists(ctx context.Context, folio string) (bool, error)
}

// ListFilter siempre filtra por dueño; ParcelID es opcional.
type ListFilter struct {
	OwnerID  string
	ParcelID string
	Offset   int
	Limit    int
}

// SearchQuery: solo se usa el primer criterio no vacío (barcode > rfid > name).
type SearchQuery struct {
	OwnerID    string
	TagBarcode string
	TagRFID    string
	Name       string
}
