package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"union-ganadera/internal/domain/parcels"
)

type parcelRepo struct {
	mu   sync.RWMutex
	byID map[string]parcels.Parcel
}

func NewParcelRepo() parcels.Repository {
	return &parcelRepo{byID: make(map[string]parcels.Parcel)}
}

func (r *parcelRepo) Create(ctx context.Context, p parcels.Parcel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUniqueLocked(p); err != nil {
		return err
	}
	r.byID[p.ID] = p
	return nil
}

func (r *parcelRepo) Update(ctx context.Context, p parcels.Parcel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return parcels.ErrNotFound
	}
	if err := r.checkUniqueLocked(p); err != nil {
		return err
	}
	r.byID[p.ID] = p
	return nil
}

func (r *parcelRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return parcels.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *parcelRepo) GetByID(ctx context.Context, id string) (parcels.Parcel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return parcels.Parcel{}, parcels.ErrNotFound
	}
	return p, nil
}

func (r *parcelRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]parcels.Parcel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]parcels.Parcel, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, offset, limit), nil
}

func (r *parcelRepo) checkUniqueLocked(p parcels.Parcel) error {
	if p.CadastralKey == "" {
		return nil
	}
	for _, other := range r.byID {
		if other.ID != p.ID && other.CadastralKey == p.CadastralKey {
			return fmt.Errorf("%w: cadastral_key %s already registered", parcels.ErrConflict, p.CadastralKey)
		}
	}
	return nil
}
