package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"union-ganadera/internal/domain/animals"
)

// OwnerLookup resuelve el dueño actual de un bovino (animals.Service lo implementa).
type OwnerLookup interface {
	OwnerOf(ctx context.Context, animalID string) (string, error)
}

type Service struct {
	repo   Repository
	owners OwnerLookup
}

func NewService(repo Repository, owners OwnerLookup) *Service {
	return &Service{repo: repo, owners: owners}
}

// Submit registra un evento: decodifica, autoriza, llama al procedimiento del
// tipo en una transacción y devuelve la entrada del libro recién creada.
func (s *Service) Submit(ctx context.Context, kind Kind, data json.RawMessage, actor Actor) (LedgerEntry, error) {
	kind = ParseKind(string(kind))

	p, err := Decode(kind, data)
	if err != nil {
		return LedgerEntry{}, err
	}

	// rol antes de tocar el almacenamiento
	if err := authorizeRole(kind, actor); err != nil {
		return LedgerEntry{}, err
	}

	subjectID := p.common().SubjectID
	ownerID, err := s.ownerOf(ctx, subjectID)
	if err != nil {
		return LedgerEntry{}, err
	}
	if err := authorizeOwner(kind, actor, ownerID); err != nil {
		return LedgerEntry{}, err
	}

	if v, ok := p.(veterinary); ok {
		v.attribute(actor.ID)
	}

	var ledgerID string
	err = s.repo.InTx(ctx, func(tx Procedures) error {
		id, err := p.register(ctx, tx)
		if err != nil {
			return err
		}
		ledgerID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrBackend) {
			return LedgerEntry{}, err
		}
		return LedgerEntry{}, fmt.Errorf("%w: register %s: %v", ErrBackend, kind, err)
	}

	e, err := s.repo.GetByID(ctx, ledgerID)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("%w: read back %s: %v", ErrBackend, ledgerID, err)
	}
	return e, nil
}

// Get devuelve una entrada del libro si el bovino es del actor.
func (s *Service) Get(ctx context.Context, eventID, actorID string) (LedgerEntry, error) {
	e, err := s.repo.GetByID(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return LedgerEntry{}, s.readErr(err)
	}
	if err := s.requireOwner(ctx, e.SubjectID, actorID); err != nil {
		return LedgerEntry{}, err
	}
	return e, nil
}

// ListMine lista los eventos de todos los bovinos del actor, más reciente primero.
func (s *Service) ListMine(ctx context.Context, actorID string, page Page) ([]LedgerEntry, error) {
	items, err := s.repo.ListByOwner(ctx, actorID, clamp(page))
	if err != nil {
		return nil, s.readErr(err)
	}
	return items, nil
}

func (s *Service) ListForAnimal(ctx context.Context, animalID, actorID string, page Page) ([]LedgerEntry, error) {
	if err := s.requireOwner(ctx, animalID, actorID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListBySubject(ctx, animalID, clamp(page))
	if err != nil {
		return nil, s.readErr(err)
	}
	return items, nil
}

// GetDetail devuelve entrada + detalle del tipo indicado.
func (s *Service) GetDetail(ctx context.Context, kind Kind, eventID, actorID string) (Detail, error) {
	if !HasDetail(kind) {
		return Detail{}, fmt.Errorf("%w: %q has no detail", ErrNotFound, kind)
	}
	d, err := s.repo.GetDetail(ctx, kind, strings.TrimSpace(eventID))
	if err != nil {
		return Detail{}, s.readErr(err)
	}
	if err := s.requireOwner(ctx, d.Entry.SubjectID, actorID); err != nil {
		return Detail{}, err
	}
	return d, nil
}

// ListDetails: sin SubjectID ni IllnessID lista los del actor.
func (s *Service) ListDetails(ctx context.Context, kind Kind, filter DetailFilter, actorID string) ([]Detail, error) {
	if !HasDetail(kind) {
		return nil, fmt.Errorf("%w: %q has no detail", ErrNotFound, kind)
	}
	filter.Page = clamp(filter.Page)

	switch {
	case filter.IllnessID != "":
		if kind != KindTreatment {
			return nil, fmt.Errorf("%w: illness filter only applies to treatments", ErrValidation)
		}
		subject, found, err := s.repo.IllnessSubject(ctx, filter.IllnessID)
		if err != nil {
			return nil, s.readErr(err)
		}
		if !found {
			return nil, fmt.Errorf("%w: illness %s", ErrNotFound, filter.IllnessID)
		}
		if err := s.requireOwner(ctx, subject, actorID); err != nil {
			return nil, err
		}
		filter.OwnerID, filter.SubjectID = "", ""
	case filter.SubjectID != "":
		if err := s.requireOwner(ctx, filter.SubjectID, actorID); err != nil {
			return nil, err
		}
		filter.OwnerID = ""
	default:
		filter.OwnerID = actorID
	}

	items, err := s.repo.ListDetails(ctx, kind, filter)
	if err != nil {
		return nil, s.readErr(err)
	}
	return items, nil
}

func (s *Service) ownerOf(ctx context.Context, animalID string) (string, error) {
	owner, err := s.owners.OwnerOf(ctx, animalID)
	if err != nil {
		if errors.Is(err, animals.ErrNotFound) {
			return "", fmt.Errorf("%w: animal %s", ErrNotFound, animalID)
		}
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return owner, nil
}

func (s *Service) requireOwner(ctx context.Context, animalID, actorID string) error {
	owner, err := s.ownerOf(ctx, animalID)
	if err != nil {
		return err
	}
	if owner != actorID {
		return ErrNotOwner
	}
	return nil
}

func (s *Service) readErr(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrBackend) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBackend, err)
}

func clamp(p Page) Page {
	p.Limit, p.Offset = animals.ClampPage(p.Limit, p.Offset)
	return p
}
