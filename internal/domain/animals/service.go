package animals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"union-ganadera/internal/platform/validate"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("animal conflict")
)

const (
	DefaultLimit = 100
	MaxLimit     = 200
)

type Service struct {
	repo  Repository
	folio *FolioGenerator
	now   func() time.Time
}

// NewService usa crypto/rand para folios; los tests pueden pasar otra fuente con NewServiceWithRand.
func NewService(repo Repository) *Service {
	return NewServiceWithRand(repo, nil)
}

func NewServiceWithRand(repo Repository, src io.Reader) *Service {
	return &Service{
		repo:  repo,
		folio: NewFolioGenerator(src, repo.FolioExists),
		now:   time.Now,
	}
}

type CreateInput struct {
	TagBarcode    string     `json:"tag_barcode"`
	TagRFID       string     `json:"tag_rfid"`
	Name          string     `json:"name"`
	MotherID      *string    `json:"mother_id"`
	FatherID      *string    `json:"father_id"`
	ParcelID      *string    `json:"parcel_id"`
	Breed         string     `json:"breed"`
	BirthDate     *time.Time `json:"birth_date"`
	Sex           Sex        `json:"sex" validate:"omitempty,oneof=M F X"`
	BirthWeight   *float64   `json:"birth_weight" validate:"omitempty,gte=0"`
	CurrentWeight *float64   `json:"current_weight" validate:"omitempty,gte=0"`
	Purpose       string     `json:"purpose"`
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Animal, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Animal{}, ErrInvalidInput
	}
	if err := validate.Struct(in); err != nil {
		return Animal{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	folio, err := s.folio.Generate(ctx)
	if err != nil {
		return Animal{}, fmt.Errorf("generate folio: %w", err)
	}

	now := s.now()
	a := Animal{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		OriginalOwnerID: ownerID,
		ParcelID:        trimPtr(in.ParcelID),
		TagBarcode:      strings.TrimSpace(in.TagBarcode),
		TagRFID:         strings.TrimSpace(in.TagRFID),
		Folio:           folio,
		Name:            strings.TrimSpace(in.Name),
		MotherID:        trimPtr(in.MotherID),
		FatherID:        trimPtr(in.FatherID),
		Breed:           strings.TrimSpace(in.Breed),
		BirthDate:       in.BirthDate,
		Sex:             in.Sex,
		BirthWeight:     in.BirthWeight,
		CurrentWeight:   in.CurrentWeight,
		Purpose:         strings.TrimSpace(in.Purpose),
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetOwned devuelve el animal solo si pertenece a ownerID.
func (s *Service) GetOwned(ctx context.Context, id, ownerID string) (Animal, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.OwnerID != ownerID {
		return Animal{}, ErrForbidden
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Animal, error) {
	if strings.TrimSpace(filter.OwnerID) == "" {
		return nil, ErrInvalidInput
	}
	filter.Limit, filter.Offset = ClampPage(filter.Limit, filter.Offset)
	return s.repo.List(ctx, filter)
}

// Search devuelve la primera coincidencia del dueño (barcode > rfid > name).
func (s *Service) Search(ctx context.Context, q SearchQuery) (Animal, error) {
	q.TagBarcode = strings.TrimSpace(q.TagBarcode)
	q.TagRFID = strings.TrimSpace(q.TagRFID)
	q.Name = strings.TrimSpace(q.Name)

	switch {
	case q.TagBarcode != "":
		q.TagRFID, q.Name = "", ""
	case q.TagRFID != "":
		q.Name = ""
	case q.Name != "":
	default:
		return Animal{}, fmt.Errorf("%w: one of tag_barcode, tag_rfid or name is required", ErrInvalidInput)
	}
	return s.repo.FindOne(ctx, q)
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	TagBarcode    *string    `json:"tag_barcode"`
	TagRFID       *string    `json:"tag_rfid"`
	Name          *string    `json:"name"`
	MotherID      *string    `json:"mother_id"`
	FatherID      *string    `json:"father_id"`
	ParcelID      *string    `json:"parcel_id"`
	Breed         *string    `json:"breed"`
	BirthDate     *time.Time `json:"birth_date"`
	Sex           *Sex       `json:"sex" validate:"omitempty,oneof=M F X"`
	BirthWeight   *float64   `json:"birth_weight" validate:"omitempty,gte=0"`
	CurrentWeight *float64   `json:"current_weight" validate:"omitempty,gte=0"`
	Purpose       *string    `json:"purpose"`
}

func (s *Service) Update(ctx context.Context, id, ownerID string, in UpdateInput) (Animal, error) {
	if err := validate.Struct(in); err != nil {
		return Animal{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	a, err := s.GetOwned(ctx, id, ownerID)
	if err != nil {
		return Animal{}, err
	}

	if in.TagBarcode != nil {
		a.TagBarcode = strings.TrimSpace(*in.TagBarcode)
	}
	if in.TagRFID != nil {
		a.TagRFID = strings.TrimSpace(*in.TagRFID)
	}
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.MotherID != nil {
		a.MotherID = trimPtr(in.MotherID)
	}
	if in.FatherID != nil {
		a.FatherID = trimPtr(in.FatherID)
	}
	if in.ParcelID != nil {
		a.ParcelID = trimPtr(in.ParcelID)
	}
	if in.Breed != nil {
		a.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.BirthDate != nil {
		a.BirthDate = in.BirthDate
	}
	if in.Sex != nil {
		a.Sex = *in.Sex
	}
	if in.BirthWeight != nil {
		a.BirthWeight = in.BirthWeight
	}
	if in.CurrentWeight != nil {
		a.CurrentWeight = in.CurrentWeight
	}
	if in.Purpose != nil {
		a.Purpose = strings.TrimSpace(*in.Purpose)
	}
	// el folio nunca se reasigna
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) (Animal, error) {
	a, err := s.GetOwned(ctx, id, ownerID)
	if err != nil {
		return Animal{}, err
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// ClampPage aplica defaults de paginación (skip/limit).
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
