package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidMultipart      = "Invalid multipart form"
	ErrMsgRequestTooLarge       = "Request body too large"
	ErrMsgUnsupportedMediaType  = "Unsupported content type"
)

// Success messages for API responses
const (
	MsgSignedUp      = "Account created successfully"
	MsgResetSent     = "If the address belongs to an account, a password reset email has been sent"
	MsgLoggedOut     = "Logged out successfully"
	MsgUpdatedFormat = "%s updated successfully"
	MsgDeletedFormat = "%s deleted successfully"
)
