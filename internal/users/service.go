package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

// Service manages user profile documents.
type Service interface {
	// CreateProfile writes a new profile, stamping CreatedAt and UpdatedAt.
	CreateProfile(ctx context.Context, user domain.User) (domain.User, error)
	GetProfile(ctx context.Context, uid string) (domain.User, error)
	// UpdateProfile applies the non-nil fields of update and mirrors them into the identity account.
	UpdateProfile(ctx context.Context, uid string, update domain.ProfileUpdate) (domain.User, error)
}

type service struct {
	repo     Repository
	accounts AccountUpdater
	now      func() time.Time
}

// NewService creates a profile service. accounts may be nil, in which case nothing is mirrored.
func NewService(repo Repository, accounts AccountUpdater) Service {
	return &service{repo: repo, accounts: accounts, now: time.Now}
}

func (s *service) CreateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	now := s.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("failed to create profile %s: %w", user.ID, err)
	}
	logger.FromContext(ctx).Info("Profile created", "uid", user.ID, "type", user.Type)
	return user, nil
}

func (s *service) GetProfile(ctx context.Context, uid string) (domain.User, error) {
	user, err := s.repo.GetUser(ctx, uid)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.NewNotFoundError(domain.ErrMsgProfileNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to load profile %s: %w", uid, err)
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, uid string, update domain.ProfileUpdate) (domain.User, error) {
	user, err := s.GetProfile(ctx, uid)
	if err != nil {
		return domain.User{}, err
	}

	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.PhotoURL != nil {
		user.PhotoURL = *update.PhotoURL
	}
	if update.PhoneNumber != nil {
		user.PhoneNumber = *update.PhoneNumber
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("failed to save profile %s: %w", uid, err)
	}

	// The profile document is authoritative for the dashboard; a failed mirror is only logged.
	if s.accounts != nil {
		if err := s.accounts.UpdateAccount(ctx, uid, update); err != nil {
			logger.FromContext(ctx).Warn("Failed to mirror profile into identity account", "uid", uid, "error", err)
		}
	}

	logger.FromContext(ctx).Info("Profile updated", "uid", uid)
	return user, nil
}
