package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/baerwang/openapi-rs/httpvalidator"
	"github.com/baerwang/openapi-rs/observability"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Validate tool defaults.
	ValidateStrict bool
	MaxBodySize    int64
	ErrorLimit     int

	LogLevel string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OPENAPI_VALIDATE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OPENAPI_VALIDATE_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OPENAPI_VALIDATE_CACHE_SIZE", 10),
		CacheTTL:           envDuration("OPENAPI_VALIDATE_CACHE_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OPENAPI_VALIDATE_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ValidateStrict:     envBool("OPENAPI_VALIDATE_STRICT", false),
		MaxBodySize:        envInt64("OPENAPI_VALIDATE_MAX_BODY_SIZE", httpvalidator.DefaultMaxBodySize),
		ErrorLimit:         envInt("OPENAPI_VALIDATE_ERROR_LIMIT", 100),
		LogLevel:           envLevel("OPENAPI_VALIDATE_LOG_LEVEL", "info"),
	}
}

// LogLevel is the level requested through OPENAPI_VALIDATE_LOG_LEVEL, or
// "info" when unset.
func LogLevel() string {
	return cfg.LogLevel
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func envLevel(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if _, err := observability.ParseLevel(v); err != nil {
		slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return v
}
