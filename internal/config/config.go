// Package config provides configuration loading using koanf.
// Precedence: environment variables over compiled defaults.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/voxmesh/rtc-token-service/internal/domain"
)

// Config holds all service configuration. Env vars map onto nested keys:
// TOKEN_APP_ID -> token.app.id, LOG_LEVEL -> log.level, and so on.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Logging configuration
	Log LogConfig `koanf:"log"`

	// Issuing credential
	Token TokenConfig `koanf:"token"`

	// HTTP server configuration
	Server ServerConfig `koanf:"server"`

	// OpenTelemetry configuration
	OTEL OTELConfig `koanf:"otel"`
}

// LogConfig holds structured logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Format string `koanf:"format"` // "json" or "text"
}

// TokenConfig holds the issuing credential. Both values come from the
// deployment environment; their absence outside local development is a
// fatal configuration error at startup, not a core-algorithm fault.
type TokenConfig struct {
	App AppCredential `koanf:"app"`
}

// AppCredential is the application identifier and shared certificate.
// The certificate is a SecretString so it can never be logged in plaintext.
type AppCredential struct {
	ID          string              `koanf:"id"`
	Certificate domain.SecretString `koanf:"certificate"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint string `koanf:"endpoint"` // Empty disables OTLP export
}

// defaults returns a Config with compiled default values.
func defaults() *Config {
	return &Config{
		Environment: "local",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Load loads configuration following the precedence:
// 1. Environment variables (highest)
// 2. Compiled defaults (lowest)
//
// Required keys missing → startup failure; optional keys missing →
// fallback to defaults.
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	// Start with compiled defaults
	cfg := defaults()

	// Load environment variables
	// Prefix: none (we use full names like TOKEN_APP_ID)
	// Delimiter: _ maps to . for nested config
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate required fields
	if err := validateRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRequired checks that required configuration is present.
// Local development may fall back to a dev credential (the composition
// root decides); everywhere else the real credential is mandatory.
func validateRequired(cfg *Config) error {
	if cfg.Environment == "local" {
		return nil
	}

	if cfg.Token.App.ID == "" {
		return fmt.Errorf("%w: token.app.id", domain.ErrConfigRequired)
	}
	if cfg.Token.App.Certificate.IsEmpty() {
		return fmt.Errorf("%w: token.app.certificate", domain.ErrConfigRequired)
	}

	return nil
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
