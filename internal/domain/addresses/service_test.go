package addresses_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"union-ganadera/internal/adapters/storage/memory"
	"union-ganadera/internal/domain/addresses"
)

func strPtr(s string) *string { return &s }

func TestService_CRUD(t *testing.T) {
	svc := addresses.NewService(memory.NewAddressRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, "u1", addresses.Input{
		Street:     strPtr("Av. Juárez 12"),
		PostalCode: strPtr("58000"),
		State:      strPtr("Michoacán"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Update(ctx, a.ID, "u1", addresses.Input{Municipality: strPtr("Morelia")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Street != "Av. Juárez 12" || got.Municipality != "Morelia" {
		t.Fatalf("unexpected address %+v", got)
	}

	list, _ := svc.List(ctx, "u1", 0, 100)
	if len(list) != 1 {
		t.Fatalf("expected 1 address, got %d", len(list))
	}
	if other, _ := svc.List(ctx, "u2", 0, 100); len(other) != 0 {
		t.Fatalf("u2 should not see u1's addresses")
	}

	if _, err := svc.Delete(ctx, a.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, a.ID, "u1"); !errors.Is(err, addresses.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestService_OwnerOnly(t *testing.T) {
	svc := addresses.NewService(memory.NewAddressRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, "u1", addresses.Input{Street: strPtr("Calle 5")})

	if _, err := svc.Get(ctx, a.ID, "u2"); !errors.Is(err, addresses.ErrForbidden) {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.Update(ctx, a.ID, "u2", addresses.Input{Street: strPtr("x")}); !errors.Is(err, addresses.ErrForbidden) {
		t.Fatalf("update: %v", err)
	}
}

func TestService_RejectsLongPostalCode(t *testing.T) {
	svc := addresses.NewService(memory.NewAddressRepo())

	_, err := svc.Create(context.Background(), "u1", addresses.Input{PostalCode: strPtr(strings.Repeat("9", 11))})
	if !errors.Is(err, addresses.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
