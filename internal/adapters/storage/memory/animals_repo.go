package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"union-ganadera/internal/domain/animals"
)

type AnimalRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalRepo() *AnimalRepo {
	return &AnimalRepo{
		byID: make(map[string]animals.Animal),
	}
}

func (r *AnimalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return fmt.Errorf("%w: id %s", animals.ErrConflict, a.ID)
	}
	if err := r.checkUniqueLocked(a); err != nil {
		return err
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AnimalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return animals.ErrNotFound
	}
	if err := r.checkUniqueLocked(a); err != nil {
		return err
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AnimalRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return animals.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *AnimalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *AnimalRepo) List(ctx context.Context, f animals.ListFilter) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.OwnerID != f.OwnerID {
			continue
		}
		if f.ParcelID != "" && (a.ParcelID == nil || *a.ParcelID != f.ParcelID) {
			continue
		}
		out = append(out, a)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, f.Offset, f.Limit), nil
}

func (r *AnimalRepo) FindOne(ctx context.Context, q animals.SearchQuery) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var match func(a animals.Animal) bool
	switch {
	case q.TagBarcode != "":
		match = func(a animals.Animal) bool { return a.TagBarcode == q.TagBarcode }
	case q.TagRFID != "":
		match = func(a animals.Animal) bool { return a.TagRFID == q.TagRFID }
	case q.Name != "":
		needle := strings.ToLower(q.Name)
		match = func(a animals.Animal) bool { return strings.Contains(strings.ToLower(a.Name), needle) }
	default:
		return animals.Animal{}, animals.ErrNotFound
	}

	var found *animals.Animal
	for _, a := range r.byID {
		if a.OwnerID != q.OwnerID || !match(a) {
			continue
		}
		if found == nil || a.CreatedAt.Before(found.CreatedAt) {
			found = &a
		}
	}
	if found == nil {
		return animals.Animal{}, animals.ErrNotFound
	}
	return *found, nil
}

func (r *AnimalRepo) FolioExists(ctx context.Context, folio string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Folio == folio {
			return true, nil
		}
	}
	return false, nil
}

// checkUniqueLocked emula los índices únicos de aretes.
func (r *AnimalRepo) checkUniqueLocked(a animals.Animal) error {
	for _, other := range r.byID {
		if other.ID == a.ID {
			continue
		}
		if a.TagBarcode != "" && other.TagBarcode == a.TagBarcode {
			return fmt.Errorf("%w: tag_barcode %s already registered", animals.ErrConflict, a.TagBarcode)
		}
		if a.TagRFID != "" && other.TagRFID == a.TagRFID {
			return fmt.Errorf("%w: tag_rfid %s already registered", animals.ErrConflict, a.TagRFID)
		}
	}
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
