package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Password1"

type gameSeed struct {
	Key        string
	Name       string
	PriceCents int64
	MinAge     *int
}

type userSeed struct {
	Email string
	Name  string
	// DateOfBirth is empty for users whose age is unknown.
	DateOfBirth string
}

func intPtr(v int) *int { return &v }

var (
	games = []gameSeed{
		{Key: "chess-masters", Name: "Chess Masters", PriceCents: 999},
		{Key: "kart-racers", Name: "Kart Racers", PriceCents: 1999, MinAge: intPtr(7)},
		{Key: "zombie-siege", Name: "Zombie Siege", PriceCents: 4999, MinAge: intPtr(18)},
	}

	buyer = userSeed{Email: "buyer@example.com", Name: "Buyer", DateOfBirth: "1988-02-14"}

	// Friends cover every eligibility outcome: adult, minor and unknown age.
	// Names mix cases to show the byte-wise ordering of the picker.
	friends = []userSeed{
		{Email: "bob@example.com", Name: "Bob", DateOfBirth: "1990-05-01"},
		{Email: "alice@example.com", Name: "alice", DateOfBirth: "2015-03-10"},
		{Email: "carl@example.com", Name: "Carl"},
	}
)

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	for _, g := range games {
		if err := upsertGame(ctx, pool, g); err != nil {
			return fmt.Errorf("upsert game %s: %w", g.Key, err)
		}
	}

	buyerID, err := upsertUser(ctx, pool, buyer, string(hash))
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", buyer.Email, err)
	}
	for _, f := range friends {
		friendID, err := upsertUser(ctx, pool, f, string(hash))
		if err != nil {
			return fmt.Errorf("upsert user %s: %w", f.Email, err)
		}
		if err := befriend(ctx, pool, buyerID, friendID); err != nil {
			return fmt.Errorf("befriend %s: %w", f.Email, err)
		}
	}

	return nil
}

func upsertGame(ctx context.Context, pool *pgxpool.Pool, g gameSeed) error {
	const q = `
INSERT INTO games (key, name, price_cents, currency, min_age)
VALUES ($1, $2, $3, 'USD', $4)
ON CONFLICT (key) DO UPDATE
SET name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    min_age = EXCLUDED.min_age
`
	_, err := pool.Exec(ctx, q, g.Key, g.Name, g.PriceCents, g.MinAge)
	return err
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u userSeed, hash string) (string, error) {
	var dob *time.Time
	if u.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", u.DateOfBirth)
		if err != nil {
			return "", err
		}
		dob = &parsed
	}

	const q = `
INSERT INTO users (email, password_hash, name, date_of_birth)
VALUES ($1, $2, $3, $4)
ON CONFLICT ((lower(email))) DO UPDATE
SET name = EXCLUDED.name,
    date_of_birth = EXCLUDED.date_of_birth
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, u.Email, hash, u.Name, dob).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func befriend(ctx context.Context, pool *pgxpool.Pool, userID, friendID string) error {
	const q = `
INSERT INTO friendships (user_id, friend_id)
VALUES ($1, $2), ($2, $1)
ON CONFLICT DO NOTHING
`
	_, err := pool.Exec(ctx, q, userID, friendID)
	return err
}
