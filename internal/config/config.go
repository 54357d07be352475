package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the client settings read from the environment.
type Config struct {
	APIURL    string        `env:"SEATCTL_API_URL" envDefault:"http://localhost:8080/api"`
	Timeout   time.Duration `env:"SEATCTL_TIMEOUT" envDefault:"10s"`
	Debounce  time.Duration `env:"SEATCTL_DEBOUNCE" envDefault:"300ms"`
	PageSize  int           `env:"SEATCTL_PAGE_SIZE" envDefault:"20"`
	LogLevel  string        `env:"SEATCTL_LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"SEATCTL_LOG_FORMAT" envDefault:"console"`
	CacheDSN  string        `env:"SEATCTL_CACHE_DSN" envDefault:"seatctl.db"`
	Listen    string        `env:"SEATCTL_LISTEN" envDefault:":8090"`
}

// LoadEnv loads whichever of the given dotenv files exist.
func LoadEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("SEATCTL_API_URL must not be empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("SEATCTL_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("SEATCTL_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("SEATCTL_DEBOUNCE must not be negative, got %s", c.Debounce)
	}
	return nil
}
