package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
	"github.com/osse101/AdventureAdmin_Go/internal/analytics"
	"github.com/osse101/AdventureAdmin_Go/internal/auth"
	"github.com/osse101/AdventureAdmin_Go/internal/config"
	"github.com/osse101/AdventureAdmin_Go/internal/resource"
	"github.com/osse101/AdventureAdmin_Go/internal/server"
	"github.com/osse101/AdventureAdmin_Go/internal/users"
)

// App is the fully wired process: the HTTP server and everything that must be
// closed after it stops.
type App struct {
	Server       *server.Server
	Repositories *Repositories
	Uploader     *Uploader
}

// Build connects every backend and wires the services into the server.
// Backends already opened are closed again when a later step fails.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	repos, err := InitializeRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	uploader, err := InitializeUploader(ctx, cfg)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, err
	}

	engines, err := resource.NewEngines(repos.Stores, uploader,
		aggregate.WithMaxUpdateAttempts(cfg.UpdateMaxAttempts),
		aggregate.WithOrphanCleanup(cfg.CleanupOrphanedUploads),
	)
	if err != nil {
		_ = uploader.Close()
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("failed to bind resources: %w", err)
	}

	ident := InitializeIdentity(ctx, cfg)
	profiles := users.NewService(repos.Users, ident.Provider)

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		TrustedProxies: cfg.TrustedProxies,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxUploadBytes,
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      cfg.RateLimitRequests,
		RateWindow:     cfg.RateLimitWindow,
		RequireAuth:    cfg.RequireAuth,
		LocalAssetDir:  LocalAssetDir(cfg),
	}, server.Dependencies{
		Engines:  engines,
		Auth:     auth.NewService(ident.Provider, ident.Verifier, profiles),
		Verifier: ident.Verifier,
		Profiles: profiles,
		Growth:   analytics.NewService(repos.Users),
		Health:   repos.Health,
	})

	return &App{Server: srv, Repositories: repos, Uploader: uploader}, nil
}
