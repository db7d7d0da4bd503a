package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Sliding session expiry window and how often the background sweep runs.
	// Both the lazy eviction in Validate and the sweep use SessionTimeout.
	SessionTimeout       time.Duration `env:"SESSION_TIMEOUT" default:"30m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"60s"`

	// Bootstrap admin account. The digest arrives pre-hashed; no plaintext
	// password ever reaches the service.
	AdminUsername       string `env:"ADMIN_USERNAME" default:"admin"`
	AdminPasswordDigest string `env:"ADMIN_PASSWORD_DIGEST"`

	// SeedSamplePolls controls whether the two demo polls are created at
	// startup. Off in production.
	SeedSamplePolls bool `env:"SEED_SAMPLE_POLLS" default:"false"`

	MaxClientsPerPoll int `env:"MAX_WS_CLIENTS_PER_POLL" default:"100"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AdminPasswordDigest == "" {
		return errors.New("ADMIN_PASSWORD_DIGEST is required")
	}
	if cfg.SessionTimeout <= 0 {
		return errors.New("SESSION_TIMEOUT must be positive")
	}
	if cfg.SessionSweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	if cfg.MaxClientsPerPoll <= 0 {
		return errors.New("MAX_WS_CLIENTS_PER_POLL must be positive")
	}
	return nil
}
