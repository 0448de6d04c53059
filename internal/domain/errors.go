package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Aggregate errors
	ErrMsgAdminIDRequired       = "userId is required"
	ErrMsgAdminDocumentNotFound = "admin aggregate document not found"
	ErrMsgImageRequired         = "image is required"
	ErrMsgUpdateConflict        = "item was modified concurrently, please retry"
	ErrMsgInvalidPayload        = "invalid payload"

	// Identity errors
	ErrMsgInvalidCredentials = "invalid email or password"
	ErrMsgInvalidToken       = "invalid or expired token"
	ErrMsgMissingToken       = "authorization token is required"
	ErrMsgEmailInUse         = "email is already in use"
	ErrMsgIdentityDisabled   = "identity provider is not configured"

	// Profile errors
	ErrMsgProfileNotFound = "profile not found"

	// Analytics errors
	ErrMsgInvalidYear  = "invalid year"
	ErrMsgInvalidMonth = "invalid month"
	ErrMsgInvalidDay   = "invalid day"
)

// Error kinds
// Every error returned by a service either wraps one of these kinds or is treated
// as unexpected. Check with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// ErrUserNotFound is returned by user repositories when no profile document exists.
var ErrUserNotFound = errors.New("user not found")

// Error is a classified error carrying a message that is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewValidationError returns an ErrValidation with a caller-facing message.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError returns an ErrNotFound with a caller-facing message.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewUnauthorizedError returns an ErrUnauthorized with a caller-facing message.
func NewUnauthorizedError(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError returns an ErrConflict with a caller-facing message.
func NewConflictError(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// PublicMessage returns the caller-facing message of a classified error.
// ok is false for unclassified errors, whose text must not reach the caller.
func PublicMessage(err error) (msg string, ok bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Message, true
	}
	return "", false
}
