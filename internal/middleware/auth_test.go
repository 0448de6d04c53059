package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/identity"
)

type stubVerifier map[string]domain.Claims

func (s stubVerifier) VerifyToken(_ context.Context, token string) (domain.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return domain.Claims{}, domain.NewUnauthorizedError(domain.ErrMsgInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderAuthorization, tt.header)
			assert.Equal(t, tt.want, BearerToken(req))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{"good": {UID: "admin-1", Email: "a@example.com"}}

	tests := []struct {
		name       string
		required   bool
		header     string
		wantStatus int
		wantUID    string
		rejected   bool
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantUID: "admin-1"},
		{name: "no token optional", wantStatus: http.StatusOK},
		{name: "no token required", required: true, wantStatus: http.StatusUnauthorized, rejected: true},
		{name: "invalid token optional", header: "Bearer bad", wantStatus: http.StatusUnauthorized, rejected: true},
		{name: "valid token required", required: true, header: "Bearer good", wantStatus: http.StatusOK, wantUID: "admin-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUID string
			rejected := false
			h := Authenticate(verifier, tt.required, func(*http.Request) { rejected = true })(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotUID = GetUserID(r.Context())
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodPost, "/api/quests", nil)
			if tt.header != "" {
				req.Header.Set(HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUID, gotUID)
			assert.Equal(t, tt.rejected, rejected)
			if rec.Code == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestAuthenticateUnconfiguredIdentityIsInternalError(t *testing.T) {
	h := Authenticate(identity.Unconfigured{Reason: errors.New("no credentials")}, false, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/quests", nil)
	req.Header.Set(HeaderAuthorization, "Bearer whatever")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgAuthUnavailable)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req = req.WithContext(WithClaims(req.Context(), domain.Claims{UID: "u"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := RequestTimeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
