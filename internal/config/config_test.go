package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talk2me/backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RELAY_BACKOFF", "")

	cfg, _, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.DriverPgx, cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "postgres://")
	assert.Equal(t, 5*time.Second, cfg.RelayBackoff)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.True(t, cfg.RelayEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("RELAY_BACKOFF", "250ms")
	t.Setenv("RELAY_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "15")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, _, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DBDSN)
	assert.Equal(t, 250*time.Millisecond, cfg.RelayBackoff)
	assert.False(t, cfg.RelayEnabled)
	assert.Equal(t, 15, cfg.RateLimitRPS)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mongo")
		_, _, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("missing secret in production", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "pgx")
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, _, err := config.Load()
		assert.Error(t, err)
	})
}
