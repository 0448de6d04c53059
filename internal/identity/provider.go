// Package identity wraps the identity provider that owns admin accounts.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

// TokenVerifier checks ID tokens issued by the provider.
type TokenVerifier interface {
	// VerifyToken returns the token claims, or an ErrUnauthorized error for invalid or expired tokens.
	VerifyToken(ctx context.Context, token string) (domain.Claims, error)
}

// Provider is the identity provider used by the auth flows.
type Provider interface {
	TokenVerifier

	// CreateAccount registers a password account and returns its uid.
	// An email already in use yields an ErrValidation error.
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)

	// SignIn exchanges credentials for a session. Wrong credentials yield ErrUnauthorized.
	SignIn(ctx context.Context, email, password string) (domain.Session, error)

	// SendPasswordReset triggers a reset email. Unknown addresses are not reported.
	SendPasswordReset(ctx context.Context, email string) error

	// DeleteAccount removes the account of uid.
	DeleteAccount(ctx context.Context, uid string) error

	// RevokeSessions invalidates every refresh token of uid.
	RevokeSessions(ctx context.Context, uid string) error

	// UpdateAccount copies display name and photo changes onto the account.
	UpdateAccount(ctx context.Context, uid string, update domain.ProfileUpdate) error
}

// ErrNotConfigured is wrapped by every call on an Unconfigured provider.
var ErrNotConfigured = errors.New(domain.ErrMsgIdentityDisabled)

// Unconfigured stands in for the provider when credentials are missing, so the
// process can start and serve the routes that do not need identity.
type Unconfigured struct {
	Reason error
}

func (u Unconfigured) err() error {
	if u.Reason == nil {
		return ErrNotConfigured
	}
	return fmt.Errorf("%w: %w", ErrNotConfigured, u.Reason)
}

func (u Unconfigured) VerifyToken(context.Context, string) (domain.Claims, error) {
	return domain.Claims{}, u.err()
}

func (u Unconfigured) CreateAccount(context.Context, string, string, string) (string, error) {
	return "", u.err()
}

func (u Unconfigured) SignIn(context.Context, string, string) (domain.Session, error) {
	return domain.Session{}, u.err()
}

func (u Unconfigured) SendPasswordReset(context.Context, string) error { return u.err() }
func (u Unconfigured) DeleteAccount(context.Context, string) error     { return u.err() }
func (u Unconfigured) RevokeSessions(context.Context, string) error    { return u.err() }

func (u Unconfigured) UpdateAccount(context.Context, string, domain.ProfileUpdate) error {
	return u.err()
}
