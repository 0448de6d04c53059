package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

const requestTypePasswordReset = "PASSWORD_RESET"

// Identity Toolkit error reasons that mean the caller got something wrong
const (
	reasonEmailNotFound     = "EMAIL_NOT_FOUND"
	reasonInvalidPassword   = "INVALID_PASSWORD"
	reasonInvalidCredential = "INVALID_LOGIN_CREDENTIALS"
	reasonUserDisabled      = "USER_DISABLED"
)

// FirebaseConfig holds what the Firebase provider needs to talk to both APIs.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsJSON []byte
	// APIKey is the web API key used for password sign-in and reset codes.
	APIKey string
}

// Firebase implements Provider with the Firebase Admin SDK for account management
// and token checks, and the Identity Toolkit REST API for password flows.
type Firebase struct {
	auth    *auth.Client
	toolkit *identitytoolkit.Service
	mailer  ResetMailer
}

// NewFirebase connects both clients. When mailer is non-nil, reset links are generated
// with the Admin SDK and delivered by mailer instead of Firebase's own templates.
func NewFirebase(ctx context.Context, cfg FirebaseConfig, mailer ResetMailer) (*Firebase, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity toolkit: %w", err)
	}
	return &Firebase{auth: authClient, toolkit: toolkit, mailer: mailer}, nil
}

func (f *Firebase) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	rec, err := f.auth.CreateUser(ctx, params)
	if auth.IsEmailAlreadyExists(err) {
		return "", domain.NewValidationError(domain.ErrMsgEmailInUse)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}
	return rec.UID, nil
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	resp, err := f.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		if isCallerError(err) {
			return domain.Session{}, domain.NewUnauthorizedError(domain.ErrMsgInvalidCredentials)
		}
		return domain.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}

	return domain.Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// VerifyToken also checks the account's revocation time, so tokens issued before
// RevokeSessions stop verifying.
func (f *Firebase) VerifyToken(ctx context.Context, token string) (domain.Claims, error) {
	tok, err := f.auth.VerifyIDTokenAndCheckRevoked(ctx, token)
	if isTokenRejection(err) {
		logger.FromContext(ctx).Debug("ID token rejected", "error", err)
		return domain.Claims{}, domain.NewUnauthorizedError(domain.ErrMsgInvalidToken)
	}
	if err != nil {
		return domain.Claims{}, fmt.Errorf("failed to verify ID token: %w", err)
	}

	email, _ := tok.Claims["email"].(string)
	return domain.Claims{
		UID:       tok.UID,
		Email:     email,
		ExpiresAt: time.Unix(tok.Expires, 0),
	}, nil
}

func (f *Firebase) SendPasswordReset(ctx context.Context, email string) error {
	if f.mailer != nil {
		link, err := f.auth.PasswordResetLink(ctx, email)
		if auth.IsUserNotFound(err) || auth.IsEmailNotFound(err) {
			logger.FromContext(ctx).Info("Password reset requested for unknown email")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to generate reset link: %w", err)
		}
		return f.mailer.SendPasswordReset(ctx, email, link)
	}

	_, err := f.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: requestTypePasswordReset,
		Email:       email,
	}).Context(ctx).Do()
	if err != nil && isCallerError(err) {
		logger.FromContext(ctx).Info("Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to request reset code: %w", err)
	}
	return nil
}

func (f *Firebase) DeleteAccount(ctx context.Context, uid string) error {
	if err := f.auth.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("failed to delete account %s: %w", uid, err)
	}
	return nil
}

func (f *Firebase) RevokeSessions(ctx context.Context, uid string) error {
	if err := f.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke sessions for %s: %w", uid, err)
	}
	return nil
}

func (f *Firebase) UpdateAccount(ctx context.Context, uid string, update domain.ProfileUpdate) error {
	params := &auth.UserToUpdate{}
	changed := false
	if update.DisplayName != nil {
		params = params.DisplayName(*update.DisplayName)
		changed = true
	}
	if update.PhotoURL != nil {
		params = params.PhotoURL(*update.PhotoURL)
		changed = true
	}
	if !changed {
		return nil
	}

	if _, err := f.auth.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update account %s: %w", uid, err)
	}
	return nil
}

// isTokenRejection reports whether a verification failure is about the token or its
// account rather than a backend outage.
func isTokenRejection(err error) bool {
	return err != nil && (auth.IsIDTokenInvalid(err) ||
		auth.IsIDTokenExpired(err) ||
		auth.IsIDTokenRevoked(err) ||
		auth.IsUserDisabled(err) ||
		auth.IsUserNotFound(err))
}

// isCallerError reports whether an Identity Toolkit failure was caused by the
// submitted credentials rather than by the service.
func isCallerError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusBadRequest {
		return false
	}
	for _, reason := range []string{reasonEmailNotFound, reasonInvalidPassword, reasonInvalidCredential, reasonUserDisabled} {
		if strings.HasPrefix(gerr.Message, reason) {
			return true
		}
	}
	return false
}
