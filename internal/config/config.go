// Package config loads agent configuration from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all agent settings
type Config struct {
	PlayerID     string `env:"PLAYER_ID" envDefault:"P01"`
	DisplayName  string `env:"PLAYER_DISPLAY_NAME" envDefault:"Parity Agent"`
	StrategyMode string `env:"STRATEGY_MODE" envDefault:"hybrid"`

	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8101"`

	// CallbackURL is the endpoint advertised to the league manager.
	// Derived from Port when unset.
	CallbackURL      string `env:"CALLBACK_URL"`
	LeagueManagerURL string `env:"LEAGUE_MANAGER_URL" envDefault:"http://localhost:8000/mcp"`
	RegisterOnStart  bool   `env:"REGISTER_ON_START" envDefault:"false"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	MaxHistory int    `env:"MAX_HISTORY" envDefault:"100"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from a .env file (if present) and the
// process environment
func Load() (Config, error) {
	// A missing .env file is fine; the environment still applies
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.CallbackURL == "" {
		cfg.CallbackURL = fmt.Sprintf("http://localhost:%d/mcp", cfg.Port)
	}

	return cfg, nil
}

// SlogLevel maps the configured log level onto slog's levels, defaulting
// to info for unknown values
func (c Config) SlogLevel() slog.Level {
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
