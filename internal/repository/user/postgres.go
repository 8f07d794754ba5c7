package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"game-market/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ageExpr derives whole years from the date of birth; NULL stays NULL.
const ageExpr = `date_part('year', age(current_date, date_of_birth))::int`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, password_hash, name, date_of_birth)
VALUES ($1, $2, $3, $4)
RETURNING id::text, email, password_hash, name, date_of_birth, ` + ageExpr + `, created_at
`
	return r.scanUser(r.pool.QueryRow(ctx, q, strings.ToLower(u.Email), u.PasswordHash, u.Name, u.DateOfBirth))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, email, password_hash, name, date_of_birth, ` + ageExpr + `, created_at
FROM users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, email, password_hash, name, date_of_birth, ` + ageExpr + `, created_at
FROM users
WHERE id = $1
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

// ListFriends returns the friends of userID in no particular order.
func (r *postgresRepo) ListFriends(ctx context.Context, userID string) ([]domain.UserShortInfo, error) {
	const q = `
SELECT u.id::text, u.name, date_part('year', age(current_date, u.date_of_birth))::int
FROM friendships f
JOIN users u ON u.id = f.friend_id
WHERE f.user_id = $1
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []domain.UserShortInfo{}
	for rows.Next() {
		var f domain.UserShortInfo
		if err := rows.Scan(&f.ID, &f.Name, &f.Age); err != nil {
			r.logger.Printf("user repo: scan friend user=%s err=%v", userID, err)
			return nil, err
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return friends, nil
}

// AddFriend records a mutual friendship. Existing links are left alone.
func (r *postgresRepo) AddFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return errors.New("cannot befriend yourself")
	}
	const q = `
INSERT INTO friendships (user_id, friend_id)
VALUES ($1, $2), ($2, $1)
ON CONFLICT DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q, userID, friendID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.DateOfBirth,
		&u.Age,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	return &u, nil
}
