package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"union-ganadera/internal/platform/validate"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("address not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Input se usa para crear y para PATCH (nil = no tocar).
type Input struct {
	Street       *string `json:"street" validate:"omitempty,max=100"`
	Neighborhood *string `json:"neighborhood" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" validate:"omitempty,max=10"`
	State        *string `json:"state" validate:"omitempty,max=50"`
	Municipality *string `json:"municipality" validate:"omitempty,max=50"`
}

func (s *Service) Create(ctx context.Context, ownerID string, in Input) (Address, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Address{}, ErrInvalidInput
	}
	if err := validate.Struct(in); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	a := Address{ID: uuid.NewString(), OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	apply(&a, in)

	if err := s.repo.Create(ctx, a); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (Address, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Address{}, err
	}
	if a.OwnerID != ownerID {
		return Address{}, ErrForbidden
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, ownerID string, offset, limit int) ([]Address, error) {
	return s.repo.ListByOwner(ctx, ownerID, offset, limit)
}

func (s *Service) Update(ctx context.Context, id, ownerID string, in Input) (Address, error) {
	if err := validate.Struct(in); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	a, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return Address{}, err
	}
	apply(&a, in)
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) (Address, error) {
	a, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return Address{}, err
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return Address{}, err
	}
	return a, nil
}

func apply(a *Address, in Input) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&a.Street, in.Street)
	set(&a.Neighborhood, in.Neighborhood)
	set(&a.PostalCode, in.PostalCode)
	set(&a.State, in.State)
	set(&a.Municipality, in.Municipality)
}
