package parcels

import "context"

type Repository interface {
	Create(ctx context.Context, p Parcel) error
	Update(ctx context.Context, p Parcel) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Parcel, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]Parcel, error)
}
