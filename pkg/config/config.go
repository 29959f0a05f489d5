// Package config holds the environment-driven configuration shared by the
// server binaries. Fields are read with cleanenv; a .env file can seed the
// environment in development.
package config

import "github.com/tendant/chi-demo/app"

// Config is the full server configuration.
type Config struct {
	DatabaseConfig DatabaseConfig
	AppConfig      app.AppConfig
	JwtConfig      JwtConfig
	SessionConfig  SessionConfig
}

// SessionConfig holds session lifecycle configuration.
type SessionConfig struct {
	// CleanupInterval is how often expired and stale invalidated
	// sessions are purged.
	CleanupInterval string `env:"SESSION_CLEANUP_INTERVAL" env-default:"1h"`
	// Retention is how long invalidated sessions are kept before purge.
	Retention string `env:"SESSION_RETENTION" env-default:"720h"`
}
