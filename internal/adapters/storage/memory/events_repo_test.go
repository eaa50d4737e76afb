package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"union-ganadera/internal/domain/animals"
	"union-ganadera/internal/domain/events"
	"union-ganadera/internal/domain/events/details"
)

func seedAnimal(t *testing.T, repo *AnimalRepo, id, owner string, weight float64) {
	t.Helper()
	w := weight
	if err := repo.Create(context.Background(), animals.Animal{ID: id, OwnerID: owner, CurrentWeight: &w, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("seed animal: %v", err)
	}
}

func TestEventRepo_InTxRollsBackOnError(t *testing.T) {
	ar := NewAnimalRepo()
	seedAnimal(t, ar, "a1", "u1", 300)
	er := NewEventRepo(ar)
	ctx := context.Background()

	boom := errors.New("detail insert failed")
	err := er.InTx(ctx, func(tx events.Procedures) error {
		if _, err := tx.RegisterWeight(ctx, "a1", "", details.Weight{NewWeight: 350}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	items, _ := er.ListBySubject(ctx, "a1", events.Page{Limit: 100})
	if len(items) != 0 {
		t.Fatalf("expected no ledger entries after rollback, got %d", len(items))
	}
	a, _ := ar.GetByID(ctx, "a1")
	if *a.CurrentWeight != 300 {
		t.Fatalf("animal weight must not change on rollback, got %v", *a.CurrentWeight)
	}
}

func TestEventRepo_WeightUpdatesAnimal(t *testing.T) {
	ar := NewAnimalRepo()
	seedAnimal(t, ar, "a1", "u1", 300)
	er := NewEventRepo(ar)
	ctx := context.Background()

	var id string
	err := er.InTx(ctx, func(tx events.Procedures) error {
		var err error
		id, err = tx.RegisterWeight(ctx, "a1", "báscula", details.Weight{NewWeight: 410.5})
		return err
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	d, err := er.GetDetail(ctx, events.KindWeight, id)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	w := d.Row.(details.Weight)
	if w.NewWeight != 410.5 || w.PreviousWeight == nil || *w.PreviousWeight != 300 {
		t.Fatalf("unexpected weight detail %+v", w)
	}

	a, _ := ar.GetByID(ctx, "a1")
	if *a.CurrentWeight != 410.5 {
		t.Fatalf("expected current weight 410.5, got %v", *a.CurrentWeight)
	}

	if _, err := er.GetDetail(ctx, events.KindDiet, id); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("weight event must not resolve as diet, got %v", err)
	}
}

func TestEventRepo_IllnessResolvesToLedger(t *testing.T) {
	ar := NewAnimalRepo()
	seedAnimal(t, ar, "a1", "u1", 0)
	er := NewEventRepo(ar)
	ctx := context.Background()

	var illnessID, ledgerID string
	err := er.InTx(ctx, func(tx events.Procedures) error {
		var err error
		illnessID, err = tx.RegisterIllness(ctx, "a1", "", details.Illness{VeterinarianID: "v1", Type: "mastitis"})
		if err != nil {
			return err
		}
		ledgerID, err = tx.LedgerIDOfIllness(ctx, illnessID)
		return err
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if illnessID == ledgerID {
		t.Fatalf("illness id and ledger id must differ")
	}

	e, err := er.GetByID(ctx, ledgerID)
	if err != nil || e.SubjectID != "a1" {
		t.Fatalf("ledger entry = %+v, %v", e, err)
	}

	subject, found, err := er.IllnessSubject(ctx, illnessID)
	if err != nil || !found || subject != "a1" {
		t.Fatalf("IllnessSubject = %q %v %v", subject, found, err)
	}
	if _, found, _ := er.IllnessSubject(ctx, "nope"); found {
		t.Fatalf("unknown illness must not be found")
	}
}

func TestEventRepo_ListDetailsFilters(t *testing.T) {
	ar := NewAnimalRepo()
	seedAnimal(t, ar, "a1", "u1", 0)
	seedAnimal(t, ar, "a2", "u2", 0)
	er := NewEventRepo(ar)
	ctx := context.Background()

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	er.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	register := func(subject, feed string) {
		t.Helper()
		if err := er.InTx(ctx, func(tx events.Procedures) error {
			_, err := tx.RegisterDiet(ctx, subject, "", details.Diet{Feed: feed})
			return err
		}); err != nil {
			t.Fatalf("diet: %v", err)
		}
	}
	register("a1", "pasto")
	register("a1", "silo")
	register("a2", "grano")

	mine, _ := er.ListDetails(ctx, events.KindDiet, events.DetailFilter{OwnerID: "u1", Page: events.Page{Limit: 100}})
	if len(mine) != 2 {
		t.Fatalf("expected 2 diets for u1, got %d", len(mine))
	}
	if mine[0].Row.(details.Diet).Feed != "silo" {
		t.Fatalf("expected newest first, got %+v", mine[0].Row)
	}

	paged, _ := er.ListDetails(ctx, events.KindDiet, events.DetailFilter{SubjectID: "a1", Page: events.Page{Offset: 1, Limit: 1}})
	if len(paged) != 1 || paged[0].Row.(details.Diet).Feed != "pasto" {
		t.Fatalf("unexpected page %+v", paged)
	}
}

func TestEventRepo_UnknownSubjectFails(t *testing.T) {
	er := NewEventRepo(NewAnimalRepo())
	ctx := context.Background()

	err := er.InTx(ctx, func(tx events.Procedures) error {
		_, err := tx.RegisterGeneral(ctx, "ghost", "")
		return err
	})
	if err == nil {
		t.Fatalf("expected error for unknown animal")
	}
}
