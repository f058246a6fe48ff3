package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration read from the environment
type Config struct {
	Port string `env:"PORT" envDefault:"8001"`

	DataPath string `env:"CHART_DATA_PATH" envDefault:"resources/datasetOccu1.csv"`
	DataURL  string `env:"CHART_DATA_URL"`
	DBDriver string `env:"CHART_DB_DRIVER"`
	DBDSN    string `env:"CHART_DB_DSN"`
	DBTable  string `env:"CHART_DB_TABLE" envDefault:"occupation_healthcare"`

	AllowedOrigins []string      `env:"CHART_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	Margin         float64       `env:"CHART_MARGIN" envDefault:"50"`
	LoadTimeout    time.Duration `env:"CHART_LOAD_TIMEOUT" envDefault:"10s"`
	MaxSessions    int           `env:"CHART_MAX_SESSIONS" envDefault:"256"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config and checks the values that cannot be defaulted
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Margin < 0 {
		return Config{}, fmt.Errorf("CHART_MARGIN must not be negative, got %g", cfg.Margin)
	}
	if cfg.MaxSessions <= 0 {
		return Config{}, fmt.Errorf("CHART_MAX_SESSIONS must be positive, got %d", cfg.MaxSessions)
	}
	if cfg.DBDriver != "" && cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("CHART_DB_DSN is required when CHART_DB_DRIVER is set")
	}
	return cfg, nil
}
