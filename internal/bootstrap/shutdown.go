package bootstrap

import (
	"context"
	"log/slog"
)

// GracefulShutdown stops the application in order:
// 1. HTTP server (stop accepting new requests, drain in-flight ones)
// 2. Asset storage client
// 3. Document store client
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, app *App) {
	slog.Info(LogMsgShuttingDownServer)

	if err := app.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	slog.Info(LogMsgClosingBackends)
	if app.Uploader != nil {
		if err := app.Uploader.Close(); err != nil {
			slog.Error("asset storage"+LogMsgCloseFailed, "error", err)
		}
	}
	if app.Repositories != nil {
		if err := app.Repositories.Close(ctx); err != nil {
			slog.Error("document store"+LogMsgCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
