// Copyright (c) 2026 TaskHive. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Signer) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the TaskHive API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) for volatile password-reset tokens
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing (symmetric HS256)
	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTIssuer   string        `env:"JWT_ISSUER"   envDefault:"taskhive.app"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"taskhive-api"`
	JWTTTL      time.Duration `env:"JWT_TTL"      envDefault:"60m"`

	// Password hashing work factor (bcrypt cost)
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Admission control (fixed window). The global policy applies to all
	// traffic; the sign-in policy additionally guards the authentication
	// endpoint. Both are keyed by client identity.
	GlobalRateLimitPermits  int           `env:"RATE_LIMIT_GLOBAL_PERMITS"     envDefault:"100"`
	GlobalRateLimitWindow   time.Duration `env:"RATE_LIMIT_GLOBAL_WINDOW"      envDefault:"1m"`
	SignInRateLimitPermits  int           `env:"RATE_LIMIT_SIGNIN_PERMITS"     envDefault:"5"`
	SignInRateLimitWindow   time.Duration `env:"RATE_LIMIT_SIGNIN_WINDOW"      envDefault:"15m"`
	DefaultRetryAfterSecond int           `env:"RATE_LIMIT_RETRY_AFTER_SECONDS" envDefault:"5"`

	// Outbound transactional email (Resend)
	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"TaskHive <no-reply@taskhive.app>"`

	// AppBaseURL is the public frontend origin used to build verification
	// and password-reset links.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
