package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndYAML(t *testing.T) {
	path := writeYAML(t, `
storage:
  driver: memory
jwt:
  secret: dev-secret
cache:
  dashboard_ttl: 45s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Cache.Kind)
	assert.Equal(t, 45*time.Second, cfg.Cache.DashboardTTL)
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, "MAD", cfg.Billing.Currency)
	assert.Equal(t, "noop", cfg.Email.Driver)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, `
server:
  addr: ":9000"
storage:
  driver: memory
jwt:
  secret: yaml-secret
`)
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("JWT_ACCESS_TTL", "2h")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.ma, https://b.ma")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, []string{"https://a.ma", "https://b.ma"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("EMAIL_DRIVER", "smtp")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.dsn")
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "email.smtp.host")
}
