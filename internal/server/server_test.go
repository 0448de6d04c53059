package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/AdventureAdmin_Go/internal/analytics"
	"github.com/osse101/AdventureAdmin_Go/internal/assets"
	"github.com/osse101/AdventureAdmin_Go/internal/auth"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/identity"
	"github.com/osse101/AdventureAdmin_Go/internal/resource"
	"github.com/osse101/AdventureAdmin_Go/internal/users"
)

// tokenTable verifies tokens from a fixed map.
type tokenTable map[string]domain.Claims

func (tt tokenTable) VerifyToken(_ context.Context, token string) (domain.Claims, error) {
	claims, ok := tt[token]
	if !ok {
		return domain.Claims{}, domain.NewUnauthorizedError(domain.ErrMsgInvalidToken)
	}
	return claims, nil
}

type okHealth struct{}

func (okHealth) Ping(context.Context) error { return nil }

func newTestServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()

	dir := t.TempDir()
	uploader, err := assets.NewLocalStorage(dir, "http://localhost:8080")
	require.NoError(t, err)
	engines, err := resource.NewEngines(resource.NewMemoryStores(), uploader)
	require.NoError(t, err)

	repo := users.NewMemoryRepository(
		domain.User{ID: "admin-1", Email: "ada@example.com", DisplayName: "Ada", Type: domain.UserTypeAdmin},
		domain.User{ID: "app-1", CreatedAt: time.Date(2024, time.May, 3, 9, 0, 0, 0, time.UTC)},
	)
	profiles := users.NewService(repo, nil)
	verifier := tokenTable{"good-token": {UID: "admin-1", Email: "ada@example.com"}}

	cfg.LocalAssetDir = dir
	srv := NewServer(cfg, Dependencies{
		Engines:  engines,
		Auth:     auth.NewService(identity.Unconfigured{Reason: errors.New("test")}, verifier, profiles),
		Verifier: verifier,
		Profiles: profiles,
		Growth:   analytics.NewService(repo),
		Health:   okHealth{},
	})
	return srv.Handler()
}

func send(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:4000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_OpsRoutes(t *testing.T) {
	h := newTestServer(t, Config{})

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		rec := send(h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := send(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
}

func TestServer_EveryResourceIsMounted(t *testing.T) {
	h := newTestServer(t, Config{})

	for _, plural := range []string{"achievements", "adventures", "categories", "events", "quests", "store"} {
		for _, path := range []string{"/api/" + plural, "/api/" + plural + "/list"} {
			rec := send(h, http.MethodGet, path, "")
			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.JSONEq(t, `[]`, rec.Body.String(), path)
		}
	}
}

func TestServer_ResourceAuth(t *testing.T) {
	t.Run("Optional token", func(t *testing.T) {
		h := newTestServer(t, Config{})

		rec := send(h, http.MethodPost, "/api/events", `{"title":"Fair"}`, "Authorization", "Bearer good-token")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created domain.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "admin-1", created.UserID)

		rec = send(h, http.MethodPost, "/api/events", `{"userId":"admin-2","title":"Fair"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = send(h, http.MethodPost, "/api/events", `{"userId":"admin-2"}`, "Authorization", "Bearer forged")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Required token", func(t *testing.T) {
		h := newTestServer(t, Config{RequireAuth: true})

		rec := send(h, http.MethodPost, "/api/events", `{"userId":"admin-2","title":"Fair"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = send(h, http.MethodGet, "/api/events", "")
		assert.Equal(t, http.StatusOK, rec.Code, "reads stay public")

		rec = send(h, http.MethodPost, "/api/events", `{"title":"Fair"}`, "Authorization", "Bearer good-token")
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestServer_ProfileAndSession(t *testing.T) {
	h := newTestServer(t, Config{})

	rec := send(h, http.MethodGet, "/api/user/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = send(h, http.MethodGet, "/api/user/profile", "", "Authorization", "Bearer good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"Ada"`)

	rec = send(h, http.MethodPost, "/api/session", "", "Authorization", "Bearer good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"uid":"admin-1","email":"ada@example.com"}`, rec.Body.String())

	rec = send(h, http.MethodPost, "/api/session", `{"token":"forged"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
}

func TestServer_UnconfiguredIdentityFailsAtUse(t *testing.T) {
	h := newTestServer(t, Config{})

	rec := send(h, http.MethodPost, "/api/signin", `{"email":"ada@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, rec.Body.String())
}

func TestServer_Growth(t *testing.T) {
	h := newTestServer(t, Config{})

	rec := send(h, http.MethodGet, "/api/users/growth?year=2024&month=May&day=3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report domain.GrowthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.TotalUsers)
	require.NotNil(t, report.DayTotal)
	assert.Equal(t, 1, *report.DayTotal)
}

func TestServer_BodyLimit(t *testing.T) {
	h := newTestServer(t, Config{MaxBodyBytes: 32})

	rec := send(h, http.MethodPost, "/api/events", `{"userId":"admin-1","title":"`+strings.Repeat("x", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_RateLimit(t *testing.T) {
	h := newTestServer(t, Config{RateLimit: 3, RateWindow: time.Minute})

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, send(h, http.MethodGet, "/api/quests", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, send(h, http.MethodGet, "/api/quests", "").Code)
}

func TestServer_ServesLocalUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "categories"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories", "a.txt"), []byte("hello"), 0o644))

	srv := NewServer(Config{LocalAssetDir: dir}, Dependencies{Health: okHealth{}, Engines: mustMemoryEngines(t)})
	rec := send(srv.Handler(), http.MethodGet, "/uploads/categories/a.txt", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func mustMemoryEngines(t *testing.T) *resource.Engines {
	t.Helper()
	uploader, err := assets.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	engines, err := resource.NewEngines(resource.NewMemoryStores(), uploader)
	require.NoError(t, err)
	return engines
}

func TestServer_SecurityHeadersOnEveryResponse(t *testing.T) {
	h := newTestServer(t, Config{RateLimit: 1, RateWindow: time.Minute})

	expected := map[string]string{
		HeaderContentType:    HeaderValueNoSniff,
		HeaderFrameOptions:   HeaderValueSameOrigin,
		HeaderXSSProtection:  HeaderValueXSSBlock,
		HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
	}

	responses := map[string]*httptest.ResponseRecorder{
		"ok":           send(h, http.MethodGet, "/api/quests", ""),
		"rate limited": send(h, http.MethodGet, "/api/quests", ""),
		"not found":    send(h, http.MethodGet, "/healthz/nope", ""),
	}
	assert.Equal(t, http.StatusOK, responses["ok"].Code)
	assert.Equal(t, http.StatusTooManyRequests, responses["rate limited"].Code)
	assert.Equal(t, http.StatusNotFound, responses["not found"].Code)

	for name, rec := range responses {
		for header, value := range expected {
			assert.Equal(t, value, rec.Header().Get(header), "%s: %s", name, header)
		}
	}
}
