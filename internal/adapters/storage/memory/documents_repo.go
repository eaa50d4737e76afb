package memory

import (
	"context"
	"sort"
	"sync"

	"union-ganadera/internal/domain/documents"
)

type documentRepo struct {
	mu   sync.RWMutex
	byID map[string]documents.Document
}

func NewDocumentRepo() documents.Repository {
	return &documentRepo{byID: make(map[string]documents.Document)}
}

func (r *documentRepo) Create(ctx context.Context, d documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID] = d
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return documents.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return documents.Document{}, documents.ErrNotFound
	}
	return d, nil
}

func (r *documentRepo) FindByOwnerAndType(ctx context.Context, ownerID string, t documents.DocType) (documents.Document, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.byID {
		if d.OwnerID == ownerID && d.Type == t {
			return d, true, nil
		}
	}
	return documents.Document{}, false, nil
}

func (r *documentRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]documents.Document, 0)
	for _, d := range r.byID {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, offset, limit), nil
}
