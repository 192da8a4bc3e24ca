package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"DATABASE_URL":     "postgres://localhost/wardrobe",
		"CLERK_SECRET_KEY": "sk_test",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3333", cfg.Port)
	assert.Equal(t, ":3333", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "wardrobe://outfits", cfg.ShareBaseURL)
	assert.Equal(t, "./serviceAccountKey.json", cfg.FCMCredentialsFile)
	assert.Empty(t, cfg.RedisURL)
	assert.Zero(t, cfg.CanvasWidth)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"DATABASE_URL":     "postgres://db/wardrobe",
		"CLERK_SECRET_KEY": "sk_live",
		"PORT":             "8080",
		"REDIS_URL":        "redis://cache:6379/2",
		"LOG_LEVEL":        "debug",
		"CANVAS_WIDTH":     "800",
		"CANVAS_HEIGHT":    "600",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 800, cfg.CanvasWidth)
	assert.Equal(t, 600, cfg.CanvasHeight)
}

func TestFromLookupRequired(t *testing.T) {
	_, err := FromLookup(lookup(map[string]string{"CLERK_SECRET_KEY": "sk"}))
	assert.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	_, err = FromLookup(lookup(map[string]string{"DATABASE_URL": "postgres://x"}))
	assert.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "CLERK_SECRET_KEY")
}

func TestFromLookupBadInteger(t *testing.T) {
	_, err := FromLookup(lookup(map[string]string{
		"DATABASE_URL":     "postgres://x",
		"CLERK_SECRET_KEY": "sk",
		"CANVAS_WIDTH":     "wide",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CANVAS_WIDTH")
}

func TestFromLookupTrustedProxies(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"DATABASE_URL":     "postgres://x",
		"CLERK_SECRET_KEY": "sk",
		"TRUSTED_PROXIES":  "10.0.0.0/8, 192.0.2.7 ,",
	}))
	require.NoError(t, err)
	require.Len(t, cfg.TrustedProxies, 2)
	assert.Equal(t, "10.0.0.0/8", cfg.TrustedProxies[0].String())
	assert.Equal(t, "192.0.2.7/32", cfg.TrustedProxies[1].String())

	_, err = FromLookup(lookup(map[string]string{
		"DATABASE_URL":     "postgres://x",
		"CLERK_SECRET_KEY": "sk",
		"TRUSTED_PROXIES":  "not-an-ip",
	}))
	assert.ErrorContains(t, err, "TRUSTED_PROXIES")
}
