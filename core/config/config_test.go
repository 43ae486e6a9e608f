package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailhaven/webserve/core/config"
)

type testConfig struct {
	Addr    string        `env:"TEST_ADDR" envDefault:"localhost:33411"`
	Timeout time.Duration `env:"TEST_TIMEOUT" envDefault:"15s"`
	Debug   bool          `env:"TEST_DEBUG" envDefault:"false"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when the environment is empty", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "localhost:33411", cfg.Addr)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
		assert.False(t, cfg.Debug)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("TEST_ADDR", "127.0.0.1:8080")
		t.Setenv("TEST_DEBUG", "true")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
		assert.True(t, cfg.Debug)
	})

	t.Run("unparseable values fail with ErrParse", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "not-a-duration")

		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParse)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "broken")

		assert.Panics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}
