package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// jsonBuffers holds the buffers responses are encoded into. Buffers grown past
// 1 MiB by a large list are dropped instead of returned.
var jsonBuffers = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 1024)) },
}

func releaseBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1<<20 {
		return
	}
	buf.Reset()
	jsonBuffers.Put(buf)
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := jsonBuffers.Get().(*bytes.Buffer)
	defer releaseBuffer(buf)

	// Encode before writing headers so a failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to its status code and writes it.
// Unclassified errors are logged and answered with a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusForError(err)
	log := logger.FromContext(r.Context())
	if status == http.StatusInternalServerError {
		log.Error(op+" failed", "error", err)
	} else {
		log.Warn(op+" rejected", "status", status, "error", err)
	}
	respondError(w, status, msg)
}

// statusForError converts the domain error kinds to HTTP status codes
func statusForError(err error) (int, string) {
	msg, public := domain.PublicMessage(err)
	if !public {
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, msg
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msg
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, msg
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, msg
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}
