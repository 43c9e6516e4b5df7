// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ImportConfig holds CSV import processing settings.
type ImportConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel imports (default: 4)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for an import slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration for a single import operation (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`

	// HistoryLimit is the maximum import-log entries returned (default: 50)
	HistoryLimit int `env:"IMPORT_HISTORY_LIMIT" default:"50"`

	// ExportLimit is the maximum rows returned by an export (default: 10000)
	ExportLimit int `env:"IMPORT_EXPORT_LIMIT" default:"10000"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ImportLimit is requests per minute for import endpoints (default: 10)
	ImportLimit int `env:"RATE_LIMIT_IMPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey enables X-API-Key authentication (default: true)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"true"`

	// APIKeys is a comma-separated list of actorUUID:key pairs
	APIKeys []string `env:"API_KEYS"`

	// DevActorID is the actor UUID attributed to requests when auth is
	// disabled (local development only)
	DevActorID string `env:"DEV_ACTOR_ID"`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// APIKeyActors parses the configured actorUUID:key pairs into a lookup from
// API key to the actor it authenticates as.
func (c *SecurityConfig) APIKeyActors() (map[string]uuid.UUID, error) {
	actors := make(map[string]uuid.UUID, len(c.APIKeys))
	for _, pair := range c.APIKeys {
		actorPart, key, ok := strings.Cut(pair, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("API_KEYS entry %q must be in actorUUID:key form", pair)
		}
		actor, err := uuid.Parse(actorPart)
		if err != nil {
			return nil, fmt.Errorf("API_KEYS entry %q has invalid actor UUID: %w", pair, err)
		}
		actors[key] = actor
	}
	return actors, nil
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
