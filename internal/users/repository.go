package users

import (
	"context"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

// Repository persists user profile documents keyed by uid.
// GetUser returns domain.ErrUserNotFound when no document exists.
type Repository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, uid string) (domain.User, error)
	SaveUser(ctx context.Context, user domain.User) error
}

// AccountUpdater mirrors profile changes into the identity provider account.
type AccountUpdater interface {
	UpdateAccount(ctx context.Context, uid string, update domain.ProfileUpdate) error
}
