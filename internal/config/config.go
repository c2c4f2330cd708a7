package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string        `env:"API_BASE_URL"`
	APIToken        string        `env:"API_TOKEN"`
	Port            string        `env:"PORT" envDefault:"8080"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	LogLevelName    string        `env:"LOG_LEVEL" envDefault:"info"`
	RefreshInterval time.Duration `env:"ORDERS_REFRESH_INTERVAL" envDefault:"120s"`
	UpstreamRPS     float64       `env:"UPSTREAM_RPS" envDefault:"10"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// FromEnv reads the process environment, after loading a .env file if present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse is FromEnv without the .env file; opts.Environment overrides the process env.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevelName))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
