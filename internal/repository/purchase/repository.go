package purchase

import (
	"context"

	"game-market/internal/domain"
)

type CreatePurchaseInput struct {
	BuyerID string
	GameID  string
}

// Repository persists purchase drafts. Transient form state never goes here.
type Repository interface {
	Create(ctx context.Context, in CreatePurchaseInput) (*domain.Purchase, error)
	GetByID(ctx context.Context, id string) (*domain.Purchase, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Purchase, error)
	// Update replaces the recipient fields and state of a draft. It returns
	// domain.ErrNotDraft when the stored purchase was already submitted.
	Update(ctx context.Context, p domain.Purchase) (*domain.Purchase, error)
}
