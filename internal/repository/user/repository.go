package user

import (
	"context"

	"game-market/internal/domain"
)

// Repository persists users and their friendships.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListFriends(ctx context.Context, userID string) ([]domain.UserShortInfo, error)
	AddFriend(ctx context.Context, userID, friendID string) error
}
