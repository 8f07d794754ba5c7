package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"game-market/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectPurchase = `
SELECT p.id::text, p.buyer_id::text, p.user_ids, p.emails, p.acknowledge_invite, p.acknowledge_invite_age,
       p.state, p.created_at, p.updated_at,
       g.id::text, g.key, g.name, g.price_cents, g.currency, g.min_age, g.created_at
FROM purchases p
JOIN games g ON g.id = p.game_id
`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreatePurchaseInput) (*domain.Purchase, error) {
	const q = `
INSERT INTO purchases (buyer_id, game_id, state)
VALUES ($1, $2, 'draft')
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, in.BuyerID, in.GameID).Scan(&id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Purchase, error) {
	return scanPurchase(r.pool.QueryRow(ctx, selectPurchase+`WHERE p.id = $1`, id))
}

func (r *postgresRepo) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Purchase, error) {
	rows, err := r.pool.Query(ctx, selectPurchase+`WHERE p.buyer_id = $1 ORDER BY p.created_at DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Purchase) (*domain.Purchase, error) {
	userIDs, err := json.Marshal(nonNil(p.UserIDs))
	if err != nil {
		return nil, err
	}
	emails, err := json.Marshal(nonNil(p.Emails))
	if err != nil {
		return nil, err
	}
	state := p.State
	if state == "" {
		state = domain.PurchaseStateDraft
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT state FROM purchases WHERE id = $1 FOR UPDATE`, p.ID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if current != domain.PurchaseStateDraft {
		return nil, domain.ErrNotDraft
	}

	if _, err := tx.Exec(ctx, `
UPDATE purchases
SET user_ids = $1,
    emails = $2,
    acknowledge_invite = $3,
    acknowledge_invite_age = $4,
    state = $5,
    updated_at = now()
WHERE id = $6
`, userIDs, emails, p.AcknowledgeInvite, p.AcknowledgeInviteAge, state, p.ID); err != nil {
		return nil, err
	}

	out, err := scanPurchase(tx.QueryRow(ctx, selectPurchase+`WHERE p.id = $1`, p.ID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase
	var userIDs, emails []byte
	err := row.Scan(
		&p.ID,
		&p.BuyerID,
		&userIDs,
		&emails,
		&p.AcknowledgeInvite,
		&p.AcknowledgeInviteAge,
		&p.State,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Game.ID,
		&p.Game.Key,
		&p.Game.Name,
		&p.Game.PriceCents,
		&p.Game.Currency,
		&p.Game.Restrictions.MinAge,
		&p.Game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(userIDs, &p.UserIDs); err != nil {
		return nil, fmt.Errorf("decode user ids purchase=%s: %w", p.ID, err)
	}
	if err := json.Unmarshal(emails, &p.Emails); err != nil {
		return nil, fmt.Errorf("decode emails purchase=%s: %w", p.ID, err)
	}
	return &p, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
