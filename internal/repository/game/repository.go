package game

import (
	"context"

	"game-market/internal/domain"
)

type Repository interface {
	GetByKey(ctx context.Context, key string) (*domain.Game, error)
	GetByID(ctx context.Context, id string) (*domain.Game, error)
	Upsert(ctx context.Context, g domain.Game) (*domain.Game, error)
}
