package bootstrap

import "time"

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized     = "Logging initialized"
	LogMsgStartingAdventureAdmin = "Starting adventure admin"
	LogMsgConfigurationLoaded    = "Configuration loaded"
	LogMsgConfigurationWarning   = "Configuration warning"
)

// Backend initialization messages
const (
	LogMsgDocumentStoreReady  = "Document store ready"
	LogMsgAssetBackendReady   = "Asset backend ready"
	LogMsgIdentityReady       = "Identity provider ready"
	LogMsgIdentityUnavailable = "Identity provider unavailable, auth endpoints will return errors"

	ErrMsgFailedCreateUploader = "failed to create asset uploader"
	ErrMsgFailedCreateGCS      = "failed to create storage client"
)

// ErrMsgIdentityCredentials is the reason given when the identity provider is left unconfigured.
const ErrMsgIdentityCredentials = "FIREBASE_ADMIN_SDK_JSON and FIREBASE_CONFIG apiKey are required"

// Shutdown messages
const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgClosingBackends      = "Closing backend clients..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgCloseFailed          = " client close failed"
)

// ShutdownTimeout bounds the whole graceful shutdown sequence.
const ShutdownTimeout = 15 * time.Second
