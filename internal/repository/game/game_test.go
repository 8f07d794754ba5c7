package game

import (
	"context"
	"errors"
	"testing"

	"game-market/internal/dbtest"
	"game-market/internal/domain"
)

func TestPostgres_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(dbtest.Pool(t))

	created, err := repo.Upsert(ctx, domain.Game{Key: "doom", Name: "Doom", PriceCents: 999, Currency: "USD", Restrictions: domain.Restrictions{MinAge: domain.IntPtr(18)}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.Restrictions.MinAge == nil || *created.Restrictions.MinAge != 18 {
		t.Fatalf("expected min age 18, got %+v", created.Restrictions)
	}

	updated, err := repo.Upsert(ctx, domain.Game{Key: "doom", Name: "Doom Eternal", PriceCents: 1999, Currency: "EUR"})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Doom Eternal" || updated.Restrictions.MinAge != nil {
		t.Fatalf("unexpected update result %+v", updated)
	}

	byKey, err := repo.GetByKey(ctx, "doom")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if byKey.ID != created.ID {
		t.Fatalf("mismatched id %s != %s", byKey.ID, created.ID)
	}

	if _, err := repo.GetByKey(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
