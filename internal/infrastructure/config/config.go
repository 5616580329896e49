package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/bibbank/riskscore/internal/domain/service"
)

// Config holds all configuration for the scoring CLI.
type Config struct {
	// MinScore is the default ranking filter; nil disables it.
	MinScore     *int
	Environment  string
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	ConfigFile   string
	Tunables     service.Tunables
	TopN         int
}

// Load reads configuration with increasing precedence: built-in defaults, the
// YAML tunables file (configFile, or SCORING_CONFIG_FILE when empty), then
// environment variables. A .env file in the working directory is loaded first
// when present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ConfigFile:   configFile,
		Tunables:     service.DefaultTunables(),
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = getEnv("SCORING_CONFIG_FILE", "")
	}

	if cfg.ConfigFile != "" {
		file, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", cfg.ConfigFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if _, err := service.DefaultConfigWith(cfg.Tunables); err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}

	return cfg, nil
}

// ScoringConfig builds the engine configuration from the loaded tunables.
func (c *Config) ScoringConfig() (service.ScoringConfig, error) {
	return service.DefaultConfigWith(c.Tunables)
}

func (c *Config) applyEnv() error {
	var errs []error

	intVar := func(key string, dst *int) {
		v, ok, err := getEnvInt(key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if ok {
			*dst = v
		}
	}

	if v, ok, err := getEnvInt("SCORING_MIN_SCORE"); err != nil {
		errs = append(errs, err)
	} else if ok {
		c.MinScore = &v
	}
	intVar("SCORING_TOP_N", &c.TopN)
	intVar("SCORING_INACTIVITY_DAYS", &c.Tunables.InactivityDays)
	intVar("SCORING_RECENT_WINDOW_DAYS", &c.Tunables.PaymentWindowDays)
	intVar("TIER_CRITICAL_MIN", &c.Tunables.Thresholds.Critical)
	intVar("TIER_HIGH_MIN", &c.Tunables.Thresholds.High)
	intVar("TIER_MEDIUM_MIN", &c.Tunables.Thresholds.Medium)

	if v := getEnv("SCORING_LOW_REVENUE", ""); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SCORING_LOW_REVENUE: %w", err))
		} else {
			c.Tunables.LowRevenueLimit = d
		}
	}

	if v := getEnv("SCORING_RISKY_STATUSES", ""); v != "" {
		c.Tunables.RiskyStatuses = splitList(v)
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string) (int, bool, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(raw) == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("%s: expected integer, got %q", key, raw)
	}
	return v, true, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
