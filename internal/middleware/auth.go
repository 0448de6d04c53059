// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/identity"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

// BearerToken returns the token of an "Authorization: Bearer <token>" header, or "".
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get(HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithClaims records verified token claims on the context.
func WithClaims(ctx context.Context, claims domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate, if any.
func ClaimsFromContext(ctx context.Context) (domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(domain.Claims)
	return claims, ok
}

// GetUserID returns the uid of the authenticated caller, or "".
func GetUserID(ctx context.Context) string {
	claims, _ := ClaimsFromContext(ctx)
	return claims.UID
}

// Authenticate verifies the bearer token when one is sent and stores its claims
// on the request context. A missing token passes through unless required.
// A present but invalid token is always rejected. onReject, when set, is told
// about every rejected request.
func Authenticate(verifier identity.TokenVerifier, required bool, onReject func(*http.Request)) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, r *http.Request, status int, msg string) {
		if onReject != nil {
			onReject(r)
		}
		writeError(w, status, msg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			token := BearerToken(r)
			if token == "" {
				if required {
					log.Warn(LogMsgMissingToken, "path", r.URL.Path)
					reject(w, r, http.StatusUnauthorized, domain.ErrMsgMissingToken)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					log.Warn(LogMsgTokenRejected, "path", r.URL.Path)
					reject(w, r, http.StatusUnauthorized, domain.ErrMsgInvalidToken)
					return
				}
				log.Error(LogMsgTokenCheckFailed, "error", err)
				writeError(w, http.StatusInternalServerError, ErrMsgAuthUnavailable)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that Authenticate did not attach claims to.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, domain.ErrMsgMissingToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestTimeout puts a deadline on the request context. Handlers see
// context.DeadlineExceeded from their store calls and answer 500 as for any
// other storage failure.
func RequestTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
