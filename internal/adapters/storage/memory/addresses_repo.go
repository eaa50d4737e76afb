package memory

import (
	"context"
	"sort"
	"sync"

	"union-ganadera/internal/domain/addresses"
)

type addressRepo struct {
	mu   sync.RWMutex
	byID map[string]addresses.Address
}

func NewAddressRepo() addresses.Repository {
	return &addressRepo{byID: make(map[string]addresses.Address)}
}

func (r *addressRepo) Create(ctx context.Context, a addresses.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	return nil
}

func (r *addressRepo) Update(ctx context.Context, a addresses.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return addresses.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *addressRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return addresses.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *addressRepo) GetByID(ctx context.Context, id string) (addresses.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return addresses.Address{}, addresses.ErrNotFound
	}
	return a, nil
}

func (r *addressRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]addresses.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]addresses.Address, 0)
	for _, a := range r.byID {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, offset, limit), nil
}
