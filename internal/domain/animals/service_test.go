package animals

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Animal
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(_ context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; ok {
		return ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(_ context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.OwnerID == f.OwnerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) FindOne(_ context.Context, q SearchQuery) (Animal, error) {
	for _, a := range r.byID {
		if a.OwnerID != q.OwnerID {
			continue
		}
		switch {
		case q.TagBarcode != "" && a.TagBarcode == q.TagBarcode:
			return a, nil
		case q.TagRFID != "" && a.TagRFID == q.TagRFID:
			return a, nil
		case q.Name != "" && a.Name == q.Name:
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

func (r *testRepo) FolioExists(_ context.Context, folio string) (bool, error) {
	for _, a := range r.byID {
		if a.Folio == folio {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo Repository) *Service {
	svc := NewServiceWithRand(repo, seeded(7))
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_CreateAssignsFolioAndOwnership(t *testing.T) {
	svc := newTestService(newTestRepo())

	a, err := svc.Create(context.Background(), "u1", CreateInput{Name: " Lucero ", TagBarcode: "MX-001", Sex: SexFemale})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !folioRe.MatchString(a.Folio) {
		t.Fatalf("bad folio %q", a.Folio)
	}
	if a.OwnerID != "u1" || a.OriginalOwnerID != "u1" {
		t.Fatalf("ownership not set: %+v", a)
	}
	if a.Status != StatusActive {
		t.Fatalf("expected status %q, got %q", StatusActive, a.Status)
	}
	if a.Name != "Lucero" {
		t.Fatalf("name not trimmed: %q", a.Name)
	}
}

func TestService_CreateRejectsBadSex(t *testing.T) {
	svc := newTestService(newTestRepo())

	_, err := svc.Create(context.Background(), "u1", CreateInput{Sex: "Z"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_UpdateKeepsFolio(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.Create(ctx, "u1", CreateInput{Name: "Lucero"})
	name := "Estrella"
	w := 420.0

	up, err := svc.Update(ctx, a.ID, "u1", UpdateInput{Name: &name, CurrentWeight: &w})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Folio != a.Folio {
		t.Fatalf("folio changed: %q -> %q", a.Folio, up.Folio)
	}
	if up.Name != "Estrella" || up.CurrentWeight == nil || *up.CurrentWeight != 420 {
		t.Fatalf("patch not applied: %+v", up)
	}
}

func TestService_OwnershipFilter(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, "u1", CreateInput{Name: "Lucero"})

	if _, err := svc.GetOwned(ctx, a.ID, "u2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Delete(ctx, a.ID, "u2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if _, err := svc.Delete(ctx, a.ID, "u1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_SearchPriority(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	byTag, _ := svc.Create(ctx, "u1", CreateInput{Name: "A", TagBarcode: "BC-1"})
	_, _ = svc.Create(ctx, "u1", CreateInput{Name: "B", TagRFID: "RF-1"})

	// barcode gana aunque name apunte a otro
	got, err := svc.Search(ctx, SearchQuery{OwnerID: "u1", TagBarcode: "BC-1", Name: "B"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.ID != byTag.ID {
		t.Fatalf("expected barcode match %s, got %s", byTag.ID, got.ID)
	}

	if _, err := svc.Search(ctx, SearchQuery{OwnerID: "u1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without criteria, got %v", err)
	}
	if _, err := svc.Search(ctx, SearchQuery{OwnerID: "u2", Name: "A"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
}

func TestService_OwnerOf(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, "u1", CreateInput{})
	owner, err := svc.OwnerOf(ctx, a.ID)
	if err != nil || owner != "u1" {
		t.Fatalf("OwnerOf = %q, %v", owner, err)
	}
	if _, err := svc.OwnerOf(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct{ limit, offset, wantL, wantO int }{
		{0, 0, DefaultLimit, 0},
		{500, -3, MaxLimit, 0},
		{25, 10, 25, 10},
	}
	for _, c := range cases {
		l, o := ClampPage(c.limit, c.offset)
		if l != c.wantL || o != c.wantO {
			t.Fatalf("ClampPage(%d,%d) = %d,%d", c.limit, c.offset, l, o)
		}
	}
}
