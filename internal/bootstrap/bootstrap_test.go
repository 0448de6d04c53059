package bootstrap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/AdventureAdmin_Go/internal/config"
	"github.com/osse101/AdventureAdmin_Go/internal/identity"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment:       config.EnvironmentDev,
		LogLevel:          "debug",
		LogFormat:         "json",
		ServiceName:       "adventure-admin",
		Version:           "test",
		DocStore:          config.DocStoreMemory,
		AssetBackend:      config.AssetBackendLocal,
		LocalAssetDir:     t.TempDir(),
		PublicBaseURL:     "http://localhost:8080",
		RequestTimeout:    time.Second,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		TokenCacheSize:    16,
		TokenCacheTTL:     time.Minute,
		UpdateMaxAttempts: 3,
	}
}

func TestBuild_MemoryBackends(t *testing.T) {
	cfg := localConfig(t)

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { GracefulShutdown(context.Background(), app) })

	assert.Equal(t, config.AssetBackendLocal, app.Uploader.Backend())
	require.NoError(t, app.Repositories.Health.Ping(context.Background()))

	h := app.Server.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/quests", strings.NewReader(`{"userId":"admin-1","title":"Find the owl"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quests?userId=admin-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Find the owl")
}

func TestInitializeIdentity_MissingCredentials(t *testing.T) {
	ident := InitializeIdentity(context.Background(), localConfig(t))

	_, isUnconfigured := ident.Provider.(identity.Unconfigured)
	assert.True(t, isUnconfigured)

	_, err := ident.Verifier.VerifyToken(context.Background(), "token")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrNotConfigured)
	assert.Contains(t, err.Error(), ErrMsgIdentityCredentials)
}

func TestLocalAssetDir(t *testing.T) {
	cfg := localConfig(t)
	assert.Equal(t, cfg.LocalAssetDir, LocalAssetDir(cfg))

	cfg.AssetBackend = config.AssetBackendS3
	assert.Empty(t, LocalAssetDir(cfg))
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := localConfig(t)

	SetupLogger(cfg, &buf)

	out := buf.String()
	assert.Contains(t, out, LogMsgStartingAdventureAdmin)
	assert.Contains(t, out, `"service":"adventure-admin"`)
	assert.Contains(t, out, `"doc_store":"memory"`, "debug level includes the configuration line")
}
