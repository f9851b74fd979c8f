// Package config models the process configuration as a single immutable value
// constructed once at startup and passed down to the components that need it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration, parsed from environment variables.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Identity Service"`
	Env     string `env:"ENV" envDefault:"DEV"`

	// DatabaseURL enables the PostgreSQL repositories. When empty the server
	// runs on in-memory repositories, for local development only.
	DatabaseURL string `env:"DATABASE_URL"`

	// AdminPassKey guards the application-provisioning endpoint. Leaving it
	// unset disables that endpoint.
	AdminPassKey string `env:"ADMIN_PASS_KEY"`

	// GoogleClientID enables Google federated login when set.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Exactly one signing scheme is used for both access and refresh tokens:
	// RS256 when the key PEMs are set, HS256 on the shared secret otherwise.
	JWTSigningSecret   string        `env:"JWT_SIGNING_SECRET"`
	JWTPrivateKeyPEM   string        `env:"JWT_PRIVATE_KEY_PEM"`
	JWTPublicKeyPEM    string        `env:"JWT_PUBLIC_KEY_PEM"`
	JWTIssuer          string        `env:"JWT_ISSUER" envDefault:"go-identity-service"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"30m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"72h"`
}

// New parses the configuration from the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// IsDev reports whether the process runs in a development environment.
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Env, "DEV")
}
