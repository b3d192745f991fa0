package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urlite/urlite/utils"
)

// setRequiredEnv sets the minimum environment for a loadable config.
func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "test-password")
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-that-is-long-enough!")
}

func TestLoadProductionConfig(t *testing.T) {
	t.Run("DefaultsApply", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := LoadProductionConfig()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "urlite", cfg.JWT.Issuer)
		assert.Equal(t, "urlite-api", cfg.JWT.Audience)
		assert.Equal(t, utils.AccessTokenTTL, cfg.JWT.AccessTokenTTL)
		assert.Equal(t, "http://localhost:8080", cfg.ShortLink.BaseURL)
		assert.Equal(t, utils.DefaultShortCodeLength, cfg.ShortLink.CodeLength)
		assert.Equal(t, utils.MaxShortCodeAttempts, cfg.ShortLink.MaxGenerationAttempts)
		assert.False(t, cfg.Cache.Enabled)
		assert.True(t, cfg.Metrics.Enabled)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("BASE_URL", "https://sho.rt")
		t.Setenv("SHORT_CODE_LENGTH", "8")
		t.Setenv("SHORT_CODE_MAX_ATTEMPTS", "5")
		t.Setenv("JWT_ACCESS_TOKEN_TTL", "15m")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadProductionConfig()
		require.NoError(t, err)

		assert.Equal(t, "https://sho.rt", cfg.ShortLink.BaseURL)
		assert.Equal(t, 8, cfg.ShortLink.CodeLength)
		assert.Equal(t, 5, cfg.ShortLink.MaxGenerationAttempts)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("MissingSecretKeyFails", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "test-password")
		t.Setenv("JWT_SECRET_KEY", "")

		_, err := LoadProductionConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	})
}

func TestValidateProductionConfig(t *testing.T) {
	validConfig := func(t *testing.T) *ProductionConfig {
		setRequiredEnv(t)
		cfg, err := LoadProductionConfig()
		require.NoError(t, err)
		return cfg
	}

	t.Run("ValidConfigPasses", func(t *testing.T) {
		cfg := validConfig(t)
		assert.NoError(t, ValidateProductionConfig(cfg))
	})

	t.Run("RelativeBaseURLRejected", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ShortLink.BaseURL = "sho.rt/links"

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BASE_URL must be an absolute URL")
	})

	t.Run("CodeLengthOutOfRangeRejected", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ShortLink.CodeLength = 3

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHORT_CODE_LENGTH")

		cfg.ShortLink.CodeLength = 33
		err = ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHORT_CODE_LENGTH")
	})

	t.Run("ZeroGenerationAttemptsRejected", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ShortLink.MaxGenerationAttempts = 0

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHORT_CODE_MAX_ATTEMPTS")
	})

	t.Run("ShortSecretKeyRejected", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.JWT.SecretKey = "too-short"

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("RSAWithoutKeysRejected", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.JWT.UseRSAKeys = true
		cfg.JWT.PrivateKey = ""
		cfg.JWT.PublicKey = ""

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_PRIVATE_KEY")
	})

	t.Run("CacheWithoutRedisURLRejected", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Cache.Enabled = true
		cfg.Cache.RedisURL = ""

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CACHE_REDIS_URL")
	})

	t.Run("InvalidLogLevelRejected", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Logging.Level = "verbose"

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_LEVEL")
	})
}
