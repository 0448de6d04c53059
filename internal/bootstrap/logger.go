package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/AdventureAdmin_Go/internal/config"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

// SetupLogger installs the default logger from the app configuration and logs
// the startup banner. Source locations are only added in development.
func SetupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	addSource := !cfg.IsProduction() && cfg.Environment != "staging"

	l := logger.InitLoggerWithWriter(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	), w)

	l.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	l.Info(LogMsgStartingAdventureAdmin,
		"environment", cfg.Environment,
		"version", cfg.Version)

	l.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"doc_store", cfg.DocStore,
		"asset_backend", cfg.AssetBackend,
		"project_id", cfg.ProjectID,
		"require_auth", cfg.RequireAuth,
		"rate_limit", cfg.RateLimitRequests,
		"rate_window", cfg.RateLimitWindow)

	return l
}
