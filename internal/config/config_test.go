package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("TEAM_MAX_EDITORS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 4, cfg.Team.MaxEditors)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("NOTIFY_WORKERS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 5, cfg.Notification.Workers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "x")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("editor cap", func(t *testing.T) {
		t.Setenv("TEAM_MAX_EDITORS", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
