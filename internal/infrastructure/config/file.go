package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the YAML tunables file. Every field is optional; absent fields keep
// the value already in Config.
type File struct {
	InactivityDays    *int           `yaml:"inactivity_days"`
	PaymentWindowDays *int           `yaml:"payment_window_days"`
	LowRevenueLimit   *string        `yaml:"low_revenue_limit"`
	RiskyStatuses     []string       `yaml:"risky_statuses"`
	Weights           map[string]int `yaml:"weights"`
	Thresholds        *struct {
		Critical *int `yaml:"critical"`
		High     *int `yaml:"high"`
		Medium   *int `yaml:"medium"`
	} `yaml:"thresholds"`
	Churn *struct {
		Multiplier *float64 `yaml:"multiplier"`
		Ceiling    *float64 `yaml:"ceiling"`
	} `yaml:"churn"`
	MinScore *int `yaml:"min_score"`
	TopN     *int `yaml:"top_n"`
}

// LoadFile reads and strictly decodes a YAML tunables file.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseFile(raw)
}

// ParseFile strictly decodes YAML tunables; unknown keys are rejected.
func ParseFile(raw []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &f, nil
}

// Apply overlays the file onto cfg.
func (f *File) Apply(cfg *Config) error {
	t := &cfg.Tunables

	if f.InactivityDays != nil {
		t.InactivityDays = *f.InactivityDays
	}
	if f.PaymentWindowDays != nil {
		t.PaymentWindowDays = *f.PaymentWindowDays
	}
	if f.LowRevenueLimit != nil {
		d, err := decimal.NewFromString(*f.LowRevenueLimit)
		if err != nil {
			return fmt.Errorf("low_revenue_limit: %w", err)
		}
		t.LowRevenueLimit = d
	}
	if len(f.RiskyStatuses) > 0 {
		t.RiskyStatuses = f.RiskyStatuses
	}
	if len(f.Weights) > 0 {
		t.Weights = f.Weights
	}
	if th := f.Thresholds; th != nil {
		if th.Critical != nil {
			t.Thresholds.Critical = *th.Critical
		}
		if th.High != nil {
			t.Thresholds.High = *th.High
		}
		if th.Medium != nil {
			t.Thresholds.Medium = *th.Medium
		}
	}
	if c := f.Churn; c != nil {
		if c.Multiplier != nil {
			t.ChurnMultiplier = *c.Multiplier
		}
		if c.Ceiling != nil {
			t.ChurnCeiling = *c.Ceiling
		}
	}
	if f.MinScore != nil {
		v := *f.MinScore
		cfg.MinScore = &v
	}
	if f.TopN != nil {
		cfg.TopN = *f.TopN
	}
	return nil
}
