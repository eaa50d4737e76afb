package parcels_test

import (
	"context"
	"errors"
	"testing"

	"union-ganadera/internal/adapters/storage/memory"
	"union-ganadera/internal/domain/animals"
	"union-ganadera/internal/domain/parcels"
)

func strPtr(s string) *string { return &s }

func f64(v float64) *float64 { return &v }

func newServices() (*parcels.Service, *animals.Service) {
	asvc := animals.NewService(memory.NewAnimalRepo())
	return parcels.NewService(memory.NewParcelRepo(), asvc), asvc
}

func TestService_CreateAndOwnership(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", parcels.Input{
		CadastralKey: strPtr(" 12-345 "),
		Latitude:     f64(19.43),
		Longitude:    f64(-99.13),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.CadastralKey != "12-345" {
		t.Fatalf("cadastral key not trimmed: %q", p.CadastralKey)
	}

	if _, err := svc.Get(ctx, p.ID, "u2"); !errors.Is(err, parcels.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Delete(ctx, p.ID, "u2"); !errors.Is(err, parcels.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if _, err := svc.Get(ctx, "missing", "u1"); !errors.Is(err, parcels.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_RejectsInvalidCoordinates(t *testing.T) {
	svc, _ := newServices()

	_, err := svc.Create(context.Background(), "u1", parcels.Input{Latitude: f64(123)})
	if !errors.Is(err, parcels.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestService_CadastralKeyIsUnique(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", parcels.Input{CadastralKey: strPtr("A-1")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "u2", parcels.Input{CadastralKey: strPtr("A-1")}); !errors.Is(err, parcels.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestService_UpdateKeepsUnsetFields(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()

	p, _ := svc.Create(ctx, "u1", parcels.Input{CadastralKey: strPtr("B-2"), TotalArea: f64(12.5)})
	got, err := svc.Update(ctx, p.ID, "u1", parcels.Input{AddressID: strPtr("addr-1")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.CadastralKey != "B-2" || got.TotalArea == nil || *got.TotalArea != 12.5 {
		t.Fatalf("unset fields changed: %+v", got)
	}
	if got.AddressID == nil || *got.AddressID != "addr-1" {
		t.Fatalf("address not set: %+v", got)
	}
}

func TestService_AnimalsInParcel(t *testing.T) {
	svc, asvc := newServices()
	ctx := context.Background()

	p, _ := svc.Create(ctx, "u1", parcels.Input{CadastralKey: strPtr("C-3")})
	if _, err := asvc.Create(ctx, "u1", animals.CreateInput{Name: "Dentro", ParcelID: &p.ID}); err != nil {
		t.Fatalf("animal: %v", err)
	}
	if _, err := asvc.Create(ctx, "u1", animals.CreateInput{Name: "Fuera"}); err != nil {
		t.Fatalf("animal: %v", err)
	}

	list, err := svc.Animals(ctx, p.ID, "u1", 0, 100)
	if err != nil {
		t.Fatalf("animals: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Dentro" {
		t.Fatalf("unexpected animals %+v", list)
	}

	if _, err := svc.Animals(ctx, p.ID, "u2", 0, 100); !errors.Is(err, parcels.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
