package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "SERVER_HOST", "SERVER_PORT", "SERVER_MAX_CONN", "SERVER_ENABLE_METRICS",
		"STORE_DRIVER", "BOLTDB_PATH", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER",
		"DB_PASSWORD", "DB_SSLMODE", "REDIS_ENABLED", "REDIS_URL", "REDIS_KEY_PREFIX", "JWT_SECRET",
		"JWT_ISSUER", "SESSION_TTL", "AUTH_DEV_LOGIN", "REQUEST_TIMEOUT_SECONDS", "MONITOR_INTERVAL", "RUN_MIGRATIONS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "taskboard", cfg.AppName)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.True(t, cfg.HTTP.EnableMetrics)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.JWT.SessionTTL)
	assert.False(t, cfg.JWT.DevLogin, "credential-less login is opt-in")
	assert.Equal(t, 5*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, "postgres://taskboard:@localhost:5432/taskboard?sslmode=disable", cfg.Database.URL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "BOLT")
	t.Setenv("BOLTDB_PATH", "/tmp/tb.db")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("AUTH_DEV_LOGIN", "true")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("SERVER_MAX_CONN", "not-a-number")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tb")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverBolt, cfg.Store.Driver)
	assert.Equal(t, "/tmp/tb.db", cfg.Store.BoltPath)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Minute, cfg.JWT.SessionTTL)
	assert.True(t, cfg.JWT.DevLogin)
	assert.Equal(t, 3*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 0, cfg.HTTP.MaxConn)
	assert.Equal(t, "postgres://u:p@db:5432/tb", cfg.Database.URL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err = Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
