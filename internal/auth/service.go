// Package auth implements the admin sign-up, sign-in and session flows.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/identity"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
	"github.com/osse101/AdventureAdmin_Go/internal/metrics"
	"github.com/osse101/AdventureAdmin_Go/internal/users"
)

// Operation names used in logs and metrics
const (
	OpSignUp         = "signup"
	OpSignIn         = "signin"
	OpSession        = "session"
	OpForgotPassword = "forgot_password"
	OpLogout         = "logout"
)

// SignUpRequest carries the fields of a new admin account.
type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
}

// Service defines the admin authentication flows.
type Service interface {
	// SignUp creates the account, writes an Admin profile and signs the admin in.
	SignUp(ctx context.Context, req SignUpRequest) (domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	// VerifySession returns the claims of a valid bearer token.
	VerifySession(ctx context.Context, token string) (domain.Claims, error)
	ForgotPassword(ctx context.Context, email string) error
	// Logout revokes every session of the token's user and forgets their cached tokens.
	Logout(ctx context.Context, token string) error
}

type invalidator interface {
	InvalidateUser(uid string)
}

type service struct {
	provider identity.Provider
	verifier identity.TokenVerifier
	profiles users.Service
}

// NewService creates the auth service. verifier is usually a caching wrapper around provider.
func NewService(provider identity.Provider, verifier identity.TokenVerifier, profiles users.Service) Service {
	if verifier == nil {
		verifier = provider
	}
	return &service{provider: provider, verifier: verifier, profiles: profiles}
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (session domain.Session, err error) {
	defer observe(OpSignUp, &err)

	email := normalizeEmail(req.Email)
	uid, err := s.provider.CreateAccount(ctx, email, req.Password, req.DisplayName)
	if err != nil {
		return domain.Session{}, err
	}

	_, err = s.profiles.CreateProfile(ctx, domain.User{
		ID:          uid,
		Email:       email,
		DisplayName: req.DisplayName,
		Type:        domain.UserTypeAdmin,
	})
	if err != nil {
		if delErr := s.provider.DeleteAccount(context.WithoutCancel(ctx), uid); delErr != nil {
			logger.FromContext(ctx).Error("Failed to remove account left without profile", "uid", uid, "error", delErr)
			return domain.Session{}, fmt.Errorf("account %s created without profile: %w", uid, err)
		}
		logger.FromContext(ctx).Warn("Removed account after profile write failed", "uid", uid, "error", err)
		return domain.Session{}, fmt.Errorf("failed to create profile for %s: %w", email, err)
	}

	session, err = s.provider.SignIn(ctx, email, req.Password)
	if err != nil {
		return domain.Session{}, err
	}
	logger.FromContext(ctx).Info("Admin signed up", "uid", uid)
	return session, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (session domain.Session, err error) {
	defer observe(OpSignIn, &err)

	session, err = s.provider.SignIn(ctx, normalizeEmail(email), password)
	if err != nil {
		return domain.Session{}, err
	}
	logger.FromContext(ctx).Info("Admin signed in", "uid", session.UID)
	return session, nil
}

func (s *service) VerifySession(ctx context.Context, token string) (claims domain.Claims, err error) {
	defer observe(OpSession, &err)

	if strings.TrimSpace(token) == "" {
		return domain.Claims{}, domain.NewUnauthorizedError(domain.ErrMsgMissingToken)
	}
	return s.verifier.VerifyToken(ctx, token)
}

func (s *service) ForgotPassword(ctx context.Context, email string) (err error) {
	defer observe(OpForgotPassword, &err)
	return s.provider.SendPasswordReset(ctx, normalizeEmail(email))
}

func (s *service) Logout(ctx context.Context, token string) (err error) {
	defer observe(OpLogout, &err)

	if strings.TrimSpace(token) == "" {
		return domain.NewUnauthorizedError(domain.ErrMsgMissingToken)
	}
	claims, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.provider.RevokeSessions(ctx, claims.UID); err != nil {
		return err
	}
	if inv, ok := s.verifier.(invalidator); ok {
		inv.InvalidateUser(claims.UID)
	}

	logger.FromContext(ctx).Info("Admin logged out", "uid", claims.UID)
	return nil
}

func observe(op string, errp *error) {
	metrics.AuthRequests.WithLabelValues(op, metrics.Outcome(*errp)).Inc()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
