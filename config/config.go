package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime option the service consumes. It is parsed once
// at process start and passed by reference; request handlers never read
// ambient environment state.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"9001"`

	// SigningSecret signs every session token. There is no default on
	// purpose: the process must not boot with a guessable key.
	SigningSecret string `env:"JWT_SECRET"`

	// TokenTTL bounds both the JWT expiry and the session cookie max-age.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// AllowedOrigins is the front-end origin allow-list for CORS.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	DSN string `env:"DATABASE_DSN" envDefault:"file:jobhub.db?cache=shared"`

	// SweepInterval controls how often expired session rows are purged.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1h"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.SigningSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production cookie
// attributes (Secure on, SameSite=None for the cross-origin front end).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
