package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"STOREFRONT_APP_NAME":                  os.Getenv("STOREFRONT_APP_NAME"),
		"STOREFRONT_APP_ENV":                   os.Getenv("STOREFRONT_APP_ENV"),
		"STOREFRONT_APP_PORT":                  os.Getenv("STOREFRONT_APP_PORT"),
		"STOREFRONT_DATABASE_PATH":             os.Getenv("STOREFRONT_DATABASE_PATH"),
		"STOREFRONT_REDIS_ENABLED":             os.Getenv("STOREFRONT_REDIS_ENABLED"),
		"STOREFRONT_REDIS_HOST":                os.Getenv("STOREFRONT_REDIS_HOST"),
		"STOREFRONT_REDIS_PORT":                os.Getenv("STOREFRONT_REDIS_PORT"),
		"STOREFRONT_REDIS_PASSWORD":            os.Getenv("STOREFRONT_REDIS_PASSWORD"),
		"STOREFRONT_PRICING_MAX_UNITS":         os.Getenv("STOREFRONT_PRICING_MAX_UNITS"),
		"STOREFRONT_PRICING_CUSTOMIZATION_FEE": os.Getenv("STOREFRONT_PRICING_CUSTOMIZATION_FEE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "storefront.db", cfg.Database.Path)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, 7, cfg.Pricing.MaxUnits)
		assert.Equal(t, 20.0, cfg.Pricing.CustomizationFee)
	})

	t.Run("default shipping steps cover the full table", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		require.Len(t, cfg.Pricing.ShippingSteps, 4)
		assert.Equal(t, ShippingStep{MinUnits: 1, Price: 25}, cfg.Pricing.ShippingSteps[0])
		assert.Equal(t, ShippingStep{MinUnits: 2, Price: 20}, cfg.Pricing.ShippingSteps[1])
		assert.Equal(t, ShippingStep{MinUnits: 3, Price: 15}, cfg.Pricing.ShippingSteps[2])
		assert.Equal(t, ShippingStep{MinUnits: 4, Price: 0}, cfg.Pricing.ShippingSteps[3])
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_NAME", "test-app")
		os.Setenv("STOREFRONT_APP_ENV", "testing")
		os.Setenv("STOREFRONT_APP_PORT", "9000")
		os.Setenv("STOREFRONT_DATABASE_PATH", "/tmp/test.db")
		os.Setenv("STOREFRONT_REDIS_HOST", "cache.local")
		os.Setenv("STOREFRONT_REDIS_PORT", "6380")
		os.Setenv("STOREFRONT_PRICING_MAX_UNITS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
		assert.Equal(t, "cache.local", cfg.Redis.Host)
		assert.Equal(t, 6380, cfg.Redis.Port)
		assert.Equal(t, 10, cfg.Pricing.MaxUnits)
	})

	t.Run("rejects non-positive max units", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_PRICING_MAX_UNITS", "-3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_units")
	})

	t.Run("rejects negative customization fee", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_PRICING_CUSTOMIZATION_FEE", "-5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "customization_fee")
	})

	t.Run("production requires a redis password when redis is enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_REDIS_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis.password")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", r.Addr())
}
