package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"union-ganadera/internal/domain/animals"
	"union-ganadera/internal/domain/events"
	"union-ganadera/internal/domain/events/details"
)

type storedEvent struct {
	entry events.LedgerEntry
	kind  events.Kind // general si no hay detalle
	row   any
	seq   int64
}

// EventRepo emula el libro de eventos y los procedimientos registrar_* en memoria.
// Las transacciones se serializan con mu; los cambios quedan en un tx y se
// aplican solo si fn termina sin error.
type EventRepo struct {
	mu      sync.RWMutex
	animals *AnimalRepo

	byID      map[string]storedEvent
	illnesses map[string]string // illness id -> event id
	seq       int64

	now func() time.Time
}

func NewEventRepo(animalRepo *AnimalRepo) *EventRepo {
	return &EventRepo{
		animals:   animalRepo,
		byID:      make(map[string]storedEvent),
		illnesses: make(map[string]string),
		now:       time.Now,
	}
}

func (r *EventRepo) InTx(ctx context.Context, fn func(tx events.Procedures) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memTx{
		repo:      r,
		events:    map[string]storedEvent{},
		illnesses: map[string]string{},
		animals:   map[string]animals.Animal{},
		now:       r.now(),
	}
	if err := fn(tx); err != nil {
		return err
	}

	// commit
	for id, a := range tx.animals {
		if err := r.animals.Update(ctx, a); err != nil {
			return fmt.Errorf("commit animal %s: %w", id, err)
		}
	}
	for id, e := range tx.events {
		r.byID[id] = e
	}
	for k, v := range tx.illnesses {
		r.illnesses[k] = v
	}
	r.seq = tx.seq(0)
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (events.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.LedgerEntry{}, events.ErrNotFound
	}
	return e.entry, nil
}

func (r *EventRepo) ListByOwner(ctx context.Context, ownerID string, page events.Page) ([]events.LedgerEntry, error) {
	return r.listEntries(ctx, func(e storedEvent) bool { return r.ownedBy(ctx, e.entry.SubjectID, ownerID) }, page)
}

func (r *EventRepo) ListBySubject(ctx context.Context, subjectID string, page events.Page) ([]events.LedgerEntry, error) {
	return r.listEntries(ctx, func(e storedEvent) bool { return e.entry.SubjectID == subjectID }, page)
}

func (r *EventRepo) GetDetail(ctx context.Context, kind events.Kind, eventID string) (events.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[eventID]
	if !ok || e.kind != kind {
		return events.Detail{}, fmt.Errorf("%w: %s event %s", events.ErrNotFound, kind, eventID)
	}
	return events.Detail{Entry: e.entry, Kind: e.kind, Row: e.row}, nil
}

func (r *EventRepo) ListDetails(ctx context.Context, kind events.Kind, f events.DetailFilter) ([]events.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedEvent, 0)
	for _, e := range r.byID {
		if e.kind != kind {
			continue
		}
		switch {
		case f.IllnessID != "":
			t, ok := e.row.(details.Treatment)
			if !ok || t.IllnessID != f.IllnessID {
				continue
			}
		case f.SubjectID != "":
			if e.entry.SubjectID != f.SubjectID {
				continue
			}
		case f.OwnerID != "":
			if !r.ownedBy(ctx, e.entry.SubjectID, f.OwnerID) {
				continue
			}
		}
		matched = append(matched, e)
	}
	sortNewestFirst(matched)

	out := make([]events.Detail, 0, len(matched))
	for _, e := range paginate(matched, f.Offset, f.Limit) {
		out = append(out, events.Detail{Entry: e.entry, Kind: e.kind, Row: e.row})
	}
	return out, nil
}

func (r *EventRepo) IllnessSubject(ctx context.Context, illnessID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.illnessSubjectLocked(illnessID)
}

func (r *EventRepo) illnessSubjectLocked(illnessID string) (string, bool, error) {
	eventID, ok := r.illnesses[illnessID]
	if !ok {
		return "", false, nil
	}
	e, ok := r.byID[eventID]
	if !ok {
		return "", false, nil
	}
	return e.entry.SubjectID, true, nil
}

func (r *EventRepo) listEntries(ctx context.Context, keep func(storedEvent) bool, page events.Page) ([]events.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedEvent, 0)
	for _, e := range r.byID {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	sortNewestFirst(matched)

	out := make([]events.LedgerEntry, 0, len(matched))
	for _, e := range paginate(matched, page.Offset, page.Limit) {
		out = append(out, e.entry)
	}
	return out, nil
}

func (r *EventRepo) ownedBy(ctx context.Context, animalID, ownerID string) bool {
	a, err := r.animals.GetByID(ctx, animalID)
	return err == nil && a.OwnerID == ownerID
}

func sortNewestFirst(items []storedEvent) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].entry.Timestamp.Equal(items[j].entry.Timestamp) {
			return items[i].seq > items[j].seq
		}
		return items[i].entry.Timestamp.After(items[j].entry.Timestamp)
	})
}

// -------------------------
// Procedimientos (dentro de InTx)
// -------------------------

type memTx struct {
	repo *EventRepo

	events    map[string]storedEvent
	illnesses map[string]string
	animals   map[string]animals.Animal
	nextSeq   int64

	now time.Time
}

var _ events.Procedures = (*memTx)(nil)

func (tx *memTx) seq(add int64) int64 {
	tx.nextSeq += add
	return tx.repo.seq + tx.nextSeq
}

// animal lee el bovino con los cambios pendientes de esta transacción.
func (tx *memTx) animal(ctx context.Context, id string) (animals.Animal, error) {
	if a, ok := tx.animals[id]; ok {
		return a, nil
	}
	a, err := tx.repo.animals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, animals.ErrNotFound) {
			return animals.Animal{}, fmt.Errorf("animal %s does not exist", id)
		}
		return animals.Animal{}, err
	}
	return a, nil
}

// insert crea la entrada del libro y su detalle (row puede ser nil).
func (tx *memTx) insert(ctx context.Context, subjectID, notes string, kind events.Kind, row func(eventID string) any) (string, error) {
	if _, err := tx.animal(ctx, subjectID); err != nil {
		return "", err
	}
	id := uuid.NewString()
	e := storedEvent{
		entry: events.LedgerEntry{ID: id, SubjectID: subjectID, Timestamp: tx.now, Notes: notes},
		kind:  kind,
		seq:   tx.seq(1),
	}
	if row != nil {
		e.row = row(id)
	}
	tx.events[id] = e
	return id, nil
}

func (tx *memTx) RegisterWeight(ctx context.Context, subjectID, notes string, d details.Weight) (string, error) {
	a, err := tx.animal(ctx, subjectID)
	if err != nil {
		return "", err
	}
	d.PreviousWeight = a.CurrentWeight

	id, err := tx.insert(ctx, subjectID, notes, events.KindWeight, func(eventID string) any {
		d.EventID = eventID
		return d
	})
	if err != nil {
		return "", err
	}

	w := d.NewWeight
	a.CurrentWeight = &w
	a.UpdatedAt = tx.now
	tx.animals[a.ID] = a
	return id, nil
}

func (tx *memTx) RegisterDiet(ctx context.Context, subjectID, notes string, d details.Diet) (string, error) {
	return tx.insert(ctx, subjectID, notes, events.KindDiet, func(eventID string) any {
		d.EventID = eventID
		return d
	})
}

func (tx *memTx) RegisterVaccination(ctx context.Context, subjectID, notes string, d details.Vaccination) (string, error) {
	return tx.insert(ctx, subjectID, notes, events.KindVaccination, func(eventID string) any {
		d.EventID = eventID
		return d
	})
}

func (tx *memTx) RegisterDeworming(ctx context.Context, subjectID, notes string, d details.Deworming) (string, error) {
	return tx.insert(ctx, subjectID, notes, events.KindDeworming, func(eventID string) any {
		d.EventID = eventID
		return d
	})
}

func (tx *memTx) RegisterLab(ctx context.Context, subjectID, notes string, d details.Lab) (string, error) {
	return tx.insert(ctx, subjectID, notes, events.KindLab, func(eventID string) any {
		d.EventID = eventID
		return d
	})
}

func (tx *memTx) RegisterSale(ctx context.Context, subjectID, notes string, d details.Sale) (string, error) {
	return tx.insert(ctx, subjectID, notes, events.KindSale, func(eventID string) any {
		d.EventID = eventID
		return d
	})
}

func (tx *memTx) RegisterTransfer(ctx context.Context, subjectID, notes string, d details.Transfer) (string, error) {
	a, err := tx.animal(ctx, subjectID)
	if err != nil {
		return "", err
	}
	d.PreviousParcelID = a.ParcelID

	id, err := tx.insert(ctx, subjectID, notes, events.KindTransfer, func(eventID string) any {
		d.EventID = eventID
		return d
	})
	if err != nil {
		return "", err
	}

	parcel := d.NewParcelID
	a.ParcelID = &parcel
	a.UpdatedAt = tx.now
	tx.animals[a.ID] = a
	return id, nil
}

func (tx *memTx) RegisterIllness(ctx context.Context, subjectID, notes string, d details.Illness) (string, error) {
	illnessID := uuid.NewString()
	eventID, err := tx.insert(ctx, subjectID, notes, events.KindIllness, func(eventID string) any {
		d.EventID = eventID
		d.IllnessID = illnessID
		return d
	})
	if err != nil {
		return "", err
	}
	tx.illnesses[illnessID] = eventID
	return illnessID, nil
}

func (tx *memTx) RegisterTreatment(ctx context.Context, subjectID, notes string, d details.Treatment) (string, error) {
	return tx.insert(ctx, subjectID, notes, events.KindTreatment, func(eventID string) any {
		d.EventID = eventID
		return d
	})
}

func (tx *memTx) RegisterGeneral(ctx context.Context, subjectID, notes string) (string, error) {
	return tx.insert(ctx, subjectID, notes, events.KindGeneral, nil)
}

func (tx *memTx) LedgerIDOfIllness(ctx context.Context, illnessID string) (string, error) {
	if id, ok := tx.illnesses[illnessID]; ok {
		return id, nil
	}
	if id, ok := tx.repo.illnesses[illnessID]; ok {
		return id, nil
	}
	return "", fmt.Errorf("illness %s has no event", illnessID)
}

func (tx *memTx) SubjectOfIllness(ctx context.Context, illnessID string) (string, bool, error) {
	if eventID, ok := tx.illnesses[illnessID]; ok {
		return tx.events[eventID].entry.SubjectID, true, nil
	}
	return tx.repo.illnessSubjectLocked(illnessID)
}
