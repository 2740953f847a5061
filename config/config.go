package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// Distinct secrets keep access and refresh tokens from validating as
	// one another.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required"  validate:"required,min=32"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required" validate:"required,min=32,nefield=AccessTokenSecret"`
	JWTAlgorithm       string `env:"JWT_ALGORITHM" envDefault:"HS256" validate:"oneof=HS256 HS384 HS512"`
	AccessTokenTTLMin  int    `env:"ACCESS_TOKEN_TTL_MIN"  envDefault:"30"    validate:"min=1"`
	RefreshTokenTTLMin int    `env:"REFRESH_TOKEN_TTL_MIN" envDefault:"21600" validate:"min=1"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMin) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLMin) * time.Minute
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
