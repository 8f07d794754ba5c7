package game

import (
	"context"
	"errors"

	"game-market/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id::text, key, name, price_cents, currency, min_age, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByKey(ctx context.Context, key string) (*domain.Game, error) {
	return scanGame(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM games WHERE key = $1`, key))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	return scanGame(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM games WHERE id = $1`, id))
}

// Upsert inserts a game or updates the one with the same key.
func (r *postgresRepo) Upsert(ctx context.Context, g domain.Game) (*domain.Game, error) {
	var minAge *int
	if g.Restrictions.HasMinAge() {
		minAge = g.Restrictions.MinAge
	}
	const q = `
INSERT INTO games (key, name, price_cents, currency, min_age)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (key) DO UPDATE
SET name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    min_age = EXCLUDED.min_age
RETURNING ` + columns
	return scanGame(r.pool.QueryRow(ctx, q, g.Key, g.Name, g.PriceCents, g.Currency, minAge))
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	err := row.Scan(&g.ID, &g.Key, &g.Name, &g.PriceCents, &g.Currency, &g.Restrictions.MinAge, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
