package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vjranagit/imurun/pkg/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, store.DefaultCapacity, cfg.Store.InitialCapacity)
	assert.False(t, cfg.Store.TimestampFallback)
	assert.Equal(t, 256, cfg.Cache.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("IMURUN_LISTEN_ADDR", "127.0.0.1:8000")
	t.Setenv("IMURUN_DATA_FILE", "/tmp/imu.csv")
	t.Setenv("IMURUN_INITIAL_CAPACITY", "64")
	t.Setenv("IMURUN_TIMESTAMP_FALLBACK", "1")
	t.Setenv("IMURUN_CACHE_TTL", "30s")
	t.Setenv("IMURUN_CACHE_CAPACITY", "not-a-number")
	t.Setenv("IMURUN_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.ListenAddr)
	assert.Equal(t, "/tmp/imu.csv", cfg.Store.DataFile)
	assert.Equal(t, 64, cfg.Store.InitialCapacity)
	assert.True(t, cfg.Store.TimestampFallback)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 256, cfg.Cache.Capacity, "unparsable values fall back to the default")

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	s := store.New(cfg.StoreOptions()...)
	s.AppendValues(5, 0, 0, 0, 0, 0, 0)
	v, err := s.ChannelValue(0, 12)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen address", func(c *Config) { c.Server.ListenAddr = "" }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"zero capacity", func(c *Config) { c.Store.InitialCapacity = 0 }},
		{"negative cache capacity", func(c *Config) { c.Cache.Capacity = -1 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
