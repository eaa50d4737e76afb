package animals

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"
)

var folioRe = regexp.MustCompile(`^[A-Z0-9]{7}$`)

func seeded(b byte) *rand.Rand {
	return rand.New(rand.NewSource(int64(b)))
}

func TestFolioGenerator_FormatOverGrowingSet(t *testing.T) {
	seen := map[string]bool{}
	g := NewFolioGenerator(seeded(1), func(_ context.Context, f string) (bool, error) {
		return seen[f], nil
	})

	for i := 0; i < 1000; i++ {
		f, err := g.Generate(context.Background())
		if err != nil {
			t.Fatalf("generate #%d: %v", i, err)
		}
		if !folioRe.MatchString(f) {
			t.Fatalf("folio %q does not match %s", f, folioRe)
		}
		seen[f] = true
	}
}

func TestFolioGenerator_RetriesUntilFree(t *testing.T) {
	var drawn []string
	g := NewFolioGenerator(seeded(2), func(_ context.Context, f string) (bool, error) {
		drawn = append(drawn, f)
		return len(drawn) < 10, nil // los primeros 9 colisionan
	})

	f, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(drawn) != 10 {
		t.Fatalf("expected 10 attempts, got %d", len(drawn))
	}
	if f != drawn[9] {
		t.Fatalf("expected 10th draw %q, got %q", drawn[9], f)
	}
}

func TestFolioGenerator_ExhaustedReturnsLastDraw(t *testing.T) {
	var drawn []string
	g := NewFolioGenerator(seeded(3), func(_ context.Context, f string) (bool, error) {
		drawn = append(drawn, f)
		return true, nil
	})

	f, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("exhaustion must not fail, got %v", err)
	}
	if len(drawn) != folioMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", folioMaxAttempts, len(drawn))
	}
	if f != drawn[len(drawn)-1] {
		t.Fatalf("expected last draw %q, got %q", drawn[len(drawn)-1], f)
	}
}

func TestFolioGenerator_DeterministicWithSeed(t *testing.T) {
	free := func(context.Context, string) (bool, error) { return false, nil }

	a, _ := NewFolioGenerator(seeded(9), free).Generate(context.Background())
	b, _ := NewFolioGenerator(seeded(9), free).Generate(context.Background())
	if a != b {
		t.Fatalf("same seed should give same folio: %q vs %q", a, b)
	}
}

func TestFolioGenerator_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	g := NewFolioGenerator(seeded(4), func(context.Context, string) (bool, error) {
		return false, boom
	})

	if _, err := g.Generate(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
