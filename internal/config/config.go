// Package config holds the application configuration, loaded from
// environment variables. Centralizing these settings keeps deployment a
// matter of setting env vars (or a .env file in development).
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all configuration for the server.
type Config struct {
	// ServerAddr is the listen address, e.g. ":8080".
	ServerAddr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JwtSecret signs session tokens. Required.
	JwtSecret string

	// TokenTTLHours is how long issued tokens stay valid.
	TokenTTLHours int

	// AdminEmail bootstraps the first admin account: a registration with
	// this email gets the admin flag.
	AdminEmail string

	// RecomputeBuffer is the dispatcher's job queue size.
	RecomputeBuffer int
}

// New creates a Config from environment variables. It validates that
// critical variables are present and returns an error otherwise, so a
// misconfigured server refuses to start.
func New() (*Config, error) {
	cfg := &Config{
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "./data/stagtrip.db"),
		JwtSecret:       os.Getenv("JWT_SECRET"),
		TokenTTLHours:   getEnvInt("TOKEN_TTL_HOURS", 24),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		RecomputeBuffer: getEnvInt("RECOMPUTE_BUFFER", 100),
	}

	if cfg.JwtSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
