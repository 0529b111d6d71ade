// Package config provides configuration management for the application.
// All settings come from the environment (optionally via a .env file),
// prefixed with GENSERVE_.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backend selectors.
const (
	BackendNone   = "none"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig
	Engine  EngineConfig
	Cache   CacheConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	BodyLimit      string
	MetricsEnabled bool
}

// EngineConfig holds inference runner configuration.
type EngineConfig struct {
	URL       string
	Timeout   time.Duration // 0 = no client-side deadline
	ModelName string
	// MaxConcurrent bounds in-flight engine invocations; 0 = unlimited.
	MaxConcurrent int64
}

// CacheConfig holds cache backend configuration.
type CacheConfig struct {
	Backend      string
	URL          string // redis connection URL
	SQLitePath   string
	TTL          time.Duration
	MaxEntries   int64 // memory backend capacity
	WriteWorkers int
	WriteQueue   int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Format string // "json" or "pretty"
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("genserve")
	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("body_limit", "64K")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("engine_url", "http://localhost:9090")
	v.SetDefault("engine_timeout", time.Duration(0))
	v.SetDefault("model_name", "dialogpt-medium")
	v.SetDefault("max_concurrent", 0)
	v.SetDefault("cache_backend", "")
	v.SetDefault("cache_url", "")
	v.SetDefault("cache_sqlite_path", "genserve-cache.db")
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("cache_max_entries", 10_000)
	v.SetDefault("cache_write_workers", 1)
	v.SetDefault("cache_write_queue", 256)
	v.SetDefault("log_format", "json")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("port"),
			BodyLimit:      v.GetString("body_limit"),
			MetricsEnabled: v.GetBool("metrics_enabled"),
		},
		Engine: EngineConfig{
			URL:           v.GetString("engine_url"),
			Timeout:       v.GetDuration("engine_timeout"),
			ModelName:     v.GetString("model_name"),
			MaxConcurrent: v.GetInt64("max_concurrent"),
		},
		Cache: CacheConfig{
			Backend:      v.GetString("cache_backend"),
			URL:          v.GetString("cache_url"),
			SQLitePath:   v.GetString("cache_sqlite_path"),
			TTL:          v.GetDuration("cache_ttl"),
			MaxEntries:   v.GetInt64("cache_max_entries"),
			WriteWorkers: v.GetInt("cache_write_workers"),
			WriteQueue:   v.GetInt("cache_write_queue"),
		},
		Logging: LoggingConfig{
			Format: v.GetString("log_format"),
		},
	}

	// Backend selection mirrors the cache-disabled contract: no backend and
	// no URL means caching is off; a bare URL implies redis.
	if cfg.Cache.Backend == "" {
		if cfg.Cache.URL != "" {
			cfg.Cache.Backend = BackendRedis
		} else {
			cfg.Cache.Backend = BackendNone
		}
	}

	switch cfg.Cache.Backend {
	case BackendNone, BackendRedis, BackendMemory, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	if cfg.Cache.Backend == BackendRedis && cfg.Cache.URL == "" {
		return nil, fmt.Errorf("cache backend %q requires GENSERVE_CACHE_URL", BackendRedis)
	}

	return cfg, nil
}
