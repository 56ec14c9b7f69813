package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "test-secret-test-secret-test-secret!")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNew_MemoryWiring(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, "memory", a.Store.Driver())
	assert.Equal(t, "memory", a.Cache.Driver())

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Service-Version"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestNew_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("CACHE_KIND", "redis")
	t.Setenv("REDIS_ADDR", mr.Addr())
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	assert.Equal(t, "redis", a.Cache.Driver())
}

func TestNew_UnknownEmailDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Email.Driver = "pigeon"
	_, err := New(context.Background(), cfg, "test")
	require.Error(t, err)
}

func TestServer_Timeouts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Addr = ":0"
	cfg.Server.ReadTimeout = 3 * time.Second
	a, err := New(context.Background(), cfg, "test")
	require.NoError(t, err)
	defer a.Close()

	srv := a.Server()
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, 3*time.Second, srv.ReadTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestClose_Idempotent(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), "test")
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}
