package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDevDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, devJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.True(t, cfg.SeedOnStartup)
}

func TestParseUsesModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_DRIVER", "postgres")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("DEV_DB_HOST", "localhost")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("PROD_JWT_EXPIRATION_MS", "60000")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, time.Minute, cfg.JWT.AccessTTL())
}

func TestParseRejectsBadInput(t *testing.T) {
	t.Run("mode", func(t *testing.T) {
		t.Setenv("APP_MODE", "staging")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("prod without secret", func(t *testing.T) {
		t.Setenv("APP_MODE", "prod")
		t.Setenv("PROD_JWT_SECRET", "")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("driver", func(t *testing.T) {
		t.Setenv("APP_MODE", "dev")
		t.Setenv("DEV_DB_DRIVER", "oracle")
		_, err := Parse()
		assert.Error(t, err)
	})

	for name, value := range map[string]string{
		"DEV_JWT_EXPIRATION_MS":         "1500",
		"DEV_JWT_REFRESH_EXPIRATION_MS": "604800001",
	} {
		t.Run("fractional "+name, func(t *testing.T) {
			t.Setenv("APP_MODE", "dev")
			t.Setenv(name, value)
			_, err := Parse()
			assert.ErrorContains(t, err, "whole seconds")
		})
	}
}
