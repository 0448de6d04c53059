package middleware

// HTTP header names and schemes
const (
	HeaderAuthorization = "Authorization"
	BearerScheme        = "Bearer"
)

// Log messages
const (
	LogMsgTokenRejected    = "Bearer token rejected"
	LogMsgTokenCheckFailed = "Bearer token verification failed"
	LogMsgMissingToken     = "Bearer token required but missing"
)

// Response messages for failures that have no domain message
const (
	ErrMsgAuthUnavailable = "authentication is unavailable"
)
