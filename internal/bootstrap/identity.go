package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/osse101/AdventureAdmin_Go/internal/config"
	"github.com/osse101/AdventureAdmin_Go/internal/identity"
)

// Identity is the provider used by the auth flows and the verifier used by the
// bearer-token middleware. The verifier caches the provider's answers.
type Identity struct {
	Provider identity.Provider
	Verifier identity.TokenVerifier
}

// InitializeIdentity connects to Firebase Authentication. Missing or broken
// credentials do not stop the process: the provider is replaced by
// identity.Unconfigured and every auth call fails at use.
func InitializeIdentity(ctx context.Context, cfg *config.Config) Identity {
	if len(cfg.FirebaseAdminJSON) == 0 || cfg.Firebase.APIKey == "" {
		return unconfigured(errors.New(ErrMsgIdentityCredentials))
	}

	var mailer identity.ResetMailer
	if cfg.SendGridAPIKey != "" {
		mailer = identity.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	}

	fb, err := identity.NewFirebase(ctx, identity.FirebaseConfig{
		ProjectID:       cfg.ProjectID,
		CredentialsJSON: cfg.FirebaseAdminJSON,
		APIKey:          cfg.Firebase.APIKey,
	}, mailer)
	if err != nil {
		return unconfigured(err)
	}

	slog.Info(LogMsgIdentityReady, "project_id", cfg.ProjectID, "sendgrid", mailer != nil)
	return Identity{
		Provider: fb,
		Verifier: identity.NewCachingVerifier(fb, cfg.TokenCacheSize, cfg.TokenCacheTTL),
	}
}

func unconfigured(reason error) Identity {
	slog.Warn(LogMsgIdentityUnavailable, "reason", reason)
	p := identity.Unconfigured{Reason: reason}
	return Identity{Provider: p, Verifier: p}
}
