package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type appConfig struct {
	Store string        `env:"TEST_APP_STORE" envDefault:"memory"`
	TTL   time.Duration `env:"TEST_APP_TTL" envDefault:"1h"`
	Debug bool          `env:"TEST_APP_DEBUG"`
}

type requiredConfig struct {
	DSN string `env:"TEST_REQUIRED_DSN,required"`
}

type checkedConfig struct {
	Port int `env:"TEST_CHECKED_PORT" envDefault:"0"`
}

func (c *checkedConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeEnvFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, time.Hour, cfg.TTL)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_APP_STORE", "redis")
	t.Setenv("TEST_APP_TTL", "30m")
	t.Setenv("TEST_APP_DEBUG", "true")

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, 30*time.Minute, cfg.TTL)
	assert.True(t, cfg.Debug)
}

func TestLoad_Cached(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_APP_STORE", "postgres")

	var first appConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_APP_STORE", "mongo")
	var second appConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "postgres", second.Store)

	config.ResetCache()
	var third appConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "mongo", third.Store)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("nil pointer", func(t *testing.T) {
		var cfg *appConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("missing required", func(t *testing.T) {
		config.ResetCache()
		os.Unsetenv("TEST_REQUIRED_DSN")

		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("validation failure is not cached", func(t *testing.T) {
		config.ResetCache()

		var cfg checkedConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrInvalidConfig)

		t.Setenv("TEST_CHECKED_PORT", "8080")
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 8080, cfg.Port)
	})
}

func TestLoad_SessionConfig(t *testing.T) {
	config.ResetCache()
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("SESSION_REFRESH_STRATEGY", "persistent:24h")
	t.Setenv("SESSION_ID_STRATEGY", "random:64")

	var cfg session.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "sid", cfg.CookieName)
	assert.Equal(t, session.PersistentStorage(24*time.Hour), cfg.Refresh)
	assert.Equal(t, session.RandomNumeric(64), cfg.IDStrategy)

	config.ResetCache()
	t.Setenv("SESSION_ID_STRATEGY", "random:8")
	assert.ErrorIs(t, config.Load(&cfg), config.ErrInvalidConfig)
}

func TestLoadEnv(t *testing.T) {
	base := writeEnvFile(t, "base.env", "TEST_APP_STORE=redis\nTEST_APP_TTL=5m\n")
	override := writeEnvFile(t, "override.env", "TEST_APP_STORE=mongo\n")
	t.Cleanup(func() {
		os.Unsetenv("TEST_APP_STORE")
		os.Unsetenv("TEST_APP_TTL")
		config.ResetCache()
	})

	config.ResetCache()
	require.NoError(t, config.LoadEnv(base, override))

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "mongo", cfg.Store)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadEnv_Missing(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), "nope.env"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)

	assert.Panics(t, func() { config.MustLoadEnv(filepath.Join(t.TempDir(), "nope.env")) })
	assert.NotPanics(t, func() { config.MustLoadEnv() })
}
