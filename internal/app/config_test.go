package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.MongoURI)
	assert.Equal(t, "ease_mdlwr", cfg.MongoDB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	// There is deliberately no fallback secret: an unset signing key must
	// abort startup, not silently default.
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("MONGO_DB", "identity")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.MongoURI)
	assert.Equal(t, "identity", cfg.MongoDB)
	assert.True(t, cfg.IsProduction())
}
