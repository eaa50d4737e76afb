package parcels

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"union-ganadera/internal/domain/animals"
	"union-ganadera/internal/platform/validate"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("parcel not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("parcel conflict")
)

// AnimalLister lista bovinos de un dueño (animals.Service).
type AnimalLister interface {
	List(ctx context.Context, filter animals.ListFilter) ([]animals.Animal, error)
}

type Service struct {
	repo    Repository
	animals AnimalLister
	now     func() time.Time
}

func NewService(repo Repository, animalsSvc AnimalLister) *Service {
	return &Service{repo: repo, animals: animalsSvc, now: time.Now}
}

// Input se usa para crear y para PATCH (nil = no tocar).
type Input struct {
	AddressID    *string  `json:"address_id"`
	CadastralKey *string  `json:"cadastral_key" validate:"omitempty,max=50"`
	TotalArea    *float64 `json:"total_area" validate:"omitempty,gte=0"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
}

func (s *Service) Create(ctx context.Context, ownerID string, in Input) (Parcel, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Parcel{}, ErrInvalidInput
	}
	if err := validate.Struct(in); err != nil {
		return Parcel{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	p := Parcel{ID: uuid.NewString(), OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	apply(&p, in)

	if err := s.repo.Create(ctx, p); err != nil {
		return Parcel{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (Parcel, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Parcel{}, err
	}
	if p.OwnerID != ownerID {
		return Parcel{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, ownerID string, offset, limit int) ([]Parcel, error) {
	return s.repo.ListByOwner(ctx, ownerID, offset, limit)
}

// Animals lista los bovinos del dueño ubicados en el predio.
func (s *Service) Animals(ctx context.Context, id, ownerID string, offset, limit int) ([]animals.Animal, error) {
	p, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.animals.List(ctx, animals.ListFilter{OwnerID: ownerID, ParcelID: p.ID, Offset: offset, Limit: limit})
}

func (s *Service) Update(ctx context.Context, id, ownerID string, in Input) (Parcel, error) {
	if err := validate.Struct(in); err != nil {
		return Parcel{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return Parcel{}, err
	}
	apply(&p, in)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Parcel{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) (Parcel, error) {
	p, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return Parcel{}, err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return Parcel{}, err
	}
	return p, nil
}

func apply(p *Parcel, in Input) {
	if in.AddressID != nil {
		v := strings.TrimSpace(*in.AddressID)
		if v == "" {
			p.AddressID = nil
		} else {
			p.AddressID = &v
		}
	}
	if in.CadastralKey != nil {
		p.CadastralKey = strings.TrimSpace(*in.CadastralKey)
	}
	if in.TotalArea != nil {
		p.TotalArea = in.TotalArea
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
	}
}
