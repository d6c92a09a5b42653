package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "pocketbook.db", cfg.Local.Path)
	assert.False(t, cfg.DB.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Sync.RemoteTimeout)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_RemoteNeedsSecret(t *testing.T) {
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("AUTH_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://postgres:@db.internal:5432/pocketbook?sslmode=disable", cfg.ConnectionString())
}
