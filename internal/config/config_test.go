package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POLL_INTERVAL_MS", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Contains(t, cfg.DSN(), "dbname=devmarket")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/market")
	t.Setenv("POLL_INTERVAL_MS", "1500")
	t.Setenv("JWT_EXPIRES_IN", "2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "postgres://u:p@db:5432/market", cfg.DSN())
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("POLL_INTERVAL_MS", "soon")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("POLL_INTERVAL_MS", "0")
	_, err = FromEnv()
	require.EqualError(t, err, "POLL_INTERVAL_MS must be positive")
}
