package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vjranagit/imurun/pkg/store"
)

// Config holds the application configuration
type Config struct {
	Server ServerConfig `json:"server"`
	Store  StoreConfig  `json:"store"`
	Cache  CacheConfig  `json:"cache"`
	Log    LogConfig    `json:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	ListenAddr string        `json:"listen_addr"`
	Timeout    time.Duration `json:"timeout"`
}

// StoreConfig holds sample store configuration
type StoreConfig struct {
	DataFile          string `json:"data_file"`
	InitialCapacity   int    `json:"initial_capacity"`
	TimestampFallback bool   `json:"timestamp_fallback"`
}

// CacheConfig holds search cache configuration
type CacheConfig struct {
	Capacity int           `json:"capacity"`
	TTL      time.Duration `json:"ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `json:"level"`
}

// DefaultConfig returns default configuration, overridden by IMURUN_*
// environment variables
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: getEnv("IMURUN_LISTEN_ADDR", ":9090"),
			Timeout:    getEnvDuration("IMURUN_SERVER_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			DataFile:          getEnv("IMURUN_DATA_FILE", ""),
			InitialCapacity:   getEnvInt("IMURUN_INITIAL_CAPACITY", store.DefaultCapacity),
			TimestampFallback: getEnvBool("IMURUN_TIMESTAMP_FALLBACK", false),
		},
		Cache: CacheConfig{
			Capacity: getEnvInt("IMURUN_CACHE_CAPACITY", 256),
			TTL:      getEnvDuration("IMURUN_CACHE_TTL", 5*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("IMURUN_LOG_LEVEL", "info"),
		},
	}
}

// StoreOptions converts to store options
func (c *Config) StoreOptions() []store.Option {
	return []store.Option{
		store.WithCapacity(c.Store.InitialCapacity),
		store.WithTimestampFallback(c.Store.TimestampFallback),
	}
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen address is required")
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}

	if c.Store.InitialCapacity < 1 {
		return fmt.Errorf("initial capacity must be at least 1")
	}

	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache capacity must not be negative")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
