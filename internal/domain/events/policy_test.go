package events

import (
	"errors"
	"testing"

	"union-ganadera/internal/ports/auth"
)

func TestClassify(t *testing.T) {
	cases := map[Kind]Access{
		KindWeight:      OwnerRestricted,
		KindDiet:        OwnerRestricted,
		KindSale:        OwnerRestricted,
		KindTransfer:    OwnerRestricted,
		KindGeneral:     OwnerRestricted,
		KindVaccination: VeterinarianRestricted,
		KindDeworming:   VeterinarianRestricted,
		KindLab:         VeterinarianRestricted,
		KindIllness:     VeterinarianRestricted,
		KindTreatment:   VeterinarianRestricted,
		Kind("foo"):     OwnerRestricted,
		Kind(""):        OwnerRestricted,
	}
	for k, want := range cases {
		if got := Classify(k); got != want {
			t.Errorf("Classify(%q) = %s, want %s", k, got, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	if got := ParseKind("  Vaccination "); got != KindVaccination {
		t.Fatalf("got %q", got)
	}
	if got := ParseKind("castración"); got != KindGeneral {
		t.Fatalf("unknown kind should map to general, got %q", got)
	}
	if HasDetail(KindGeneral) || HasDetail(Kind("foo")) || !HasDetail(KindLab) {
		t.Fatalf("HasDetail mismatch")
	}
}

func TestAuthorizeRole(t *testing.T) {
	owner := Actor{ID: "u1", Role: auth.RoleOwner}
	vet := Actor{ID: "v1", Role: auth.RoleVeterinarian}
	admin := Actor{ID: "a1", Role: auth.RoleAdmin}

	if err := authorizeRole(KindLab, owner); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("owner on lab: %v", err)
	}
	if err := authorizeRole(KindLab, admin); !errors.Is(err, ErrVeterinarianRequired) {
		t.Fatalf("admin on lab: %v", err)
	}
	if err := authorizeRole(KindLab, vet); err != nil {
		t.Fatalf("vet on lab: %v", err)
	}
	if err := authorizeRole(KindWeight, owner); err != nil {
		t.Fatalf("owner on weight: %v", err)
	}
}

func TestAuthorizeOwner(t *testing.T) {
	vet := Actor{ID: "v1", Role: auth.RoleVeterinarian}

	// un veterinario no necesita ser dueño para eventos clínicos
	if err := authorizeOwner(KindVaccination, vet, "u1"); err != nil {
		t.Fatalf("vet on vaccination: %v", err)
	}
	if err := authorizeOwner(KindWeight, vet, "u1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("vet on someone else's weight: %v", err)
	}
	if err := authorizeOwner(KindGeneral, Actor{ID: "u1"}, "u1"); err != nil {
		t.Fatalf("owner on general: %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"ok":               nil,
		"not_found":        ErrNotFound,
		"unauthorized":     ErrNotOwner,
		"validation_error": ErrValidation,
		"backend_failure":  errors.New("boom"),
	}
	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Errorf("ErrorKind(%v) = %q, want %q", err, got, want)
		}
	}
}
