package purchase

import (
	"context"
	"errors"
	"testing"

	"game-market/internal/dbtest"
	"game-market/internal/domain"
)

func TestPostgres_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool)

	buyer := dbtest.InsertUser(t, pool, "buyer@example.com", "Buyer", "1990-01-01")
	friend := dbtest.InsertUser(t, pool, "friend@example.com", "Friend", "1991-01-01")
	gameID := dbtest.InsertGame(t, pool, "doom", domain.IntPtr(18))

	created, err := repo.Create(ctx, CreatePurchaseInput{BuyerID: buyer, GameID: gameID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.State != domain.PurchaseStateDraft || len(created.UserIDs) != 0 || len(created.Emails) != 0 {
		t.Fatalf("unexpected draft %+v", created)
	}
	if created.Game.Restrictions.MinAge == nil || *created.Game.Restrictions.MinAge != 18 {
		t.Fatalf("expected game restriction on draft, got %+v", created.Game)
	}

	next := created.Clone()
	next.UserIDs = []string{friend}
	next.Emails = []string{"new@example.com"}
	next.AcknowledgeInvite = true
	updated, err := repo.Update(ctx, next)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.UserIDs) != 1 || updated.UserIDs[0] != friend || !updated.AcknowledgeInvite {
		t.Fatalf("unexpected updated draft %+v", updated)
	}

	submitted := updated.Clone()
	submitted.State = domain.PurchaseStateSubmitted
	if _, err := repo.Update(ctx, submitted); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := repo.Update(ctx, submitted); !errors.Is(err, domain.ErrNotDraft) {
		t.Fatalf("expected ErrNotDraft, got %v", err)
	}

	list, err := repo.ListByBuyer(ctx, buyer)
	if err != nil {
		t.Fatalf("ListByBuyer: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	missing := created.Clone()
	missing.ID = "00000000-0000-0000-0000-000000000000"
	if _, err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
