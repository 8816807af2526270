package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v7"
)

// HS256 needs a 256-bit key; anything shorter is a misconfiguration.
const minSecretBytes = 32

// Config holds environment-driven configuration.
type Config struct {
	Addr            string `env:"ADDR" envDefault:":8080"`
	JWTSecret       string `env:"JWT_SECRET"`
	JWTExpirationMS int64  `env:"JWT_EXPIRATION_MS"`
	JWTIssuer       string `env:"JWT_ISSUER"`
}

// Load reads configuration from environment variables and validates the
// pieces that must be correct before the process can serve traffic.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	if len(cfg.JWTSecret) < minSecretBytes {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", minSecretBytes, len(cfg.JWTSecret))
	}
	if cfg.JWTExpirationMS <= 0 {
		return Config{}, errors.New("JWT_EXPIRATION_MS must be a positive number of milliseconds")
	}
	if cfg.JWTIssuer == "" {
		return Config{}, errors.New("JWT_ISSUER must be provided")
	}

	return cfg, nil
}

// TokenTTL returns the configured token validity window.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationMS) * time.Millisecond
}
