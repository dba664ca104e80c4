// Package config provides configuration loading and validation for the
// evaluation pipeline.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config is the pipeline configuration. Values come from an optional JSON
// file, overridden by environment variables.
type Config struct {
	// External services
	GeminiAPIKey string `json:"gemini_api_key,omitempty" env:"GEMINI_API_KEY" validate:"required"`
	DatabaseURL  string `json:"database_url,omitempty" env:"DATABASE_URL" validate:"required"`
	RedisAddr    string `json:"redis_addr,omitempty" env:"REDIS_ADDR"`

	// Document extraction service
	ExtractionBaseURL      string `json:"extraction_base_url,omitempty" env:"EXTRACTION_BASE_URL"`
	ExtractionClientID     string `json:"extraction_client_id,omitempty" env:"EXTRACTION_CLIENT_ID" validate:"required"`
	ExtractionClientSecret string `json:"extraction_client_secret,omitempty" env:"EXTRACTION_CLIENT_SECRET" validate:"required"`

	// Email delivery
	EmailAPIKey   string `json:"email_api_key,omitempty" env:"EMAIL_API_KEY"`
	EmailFromAddr string `json:"email_from_addr,omitempty" env:"EMAIL_FROM_ADDR" validate:"omitempty,email"`

	// Session tracking
	SessionSecret string        `json:"session_secret,omitempty" env:"SESSION_SECRET"`
	SessionTTL    time.Duration `json:"session_ttl,omitempty" env:"SESSION_TTL"`

	// Scoring
	ScoringVersion string `json:"scoring_version,omitempty" env:"SCORING_VERSION"`
	// Threshold is the minimum score for second-round eligibility.
	Threshold int `json:"threshold,omitempty" env:"SCORE_THRESHOLD" validate:"gte=0,lte=100"`

	Verbose bool `json:"verbose,omitempty" env:"VERBOSE"`
}

// Load reads configuration from the JSON file at path (optional, pass ""
// to skip), applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Threshold == 0 {
		c.Threshold = 70
	}
	if c.ScoringVersion == "" {
		c.ScoringVersion = "v2-enhanced-llm"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 7 * 24 * time.Hour
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return fmt.Errorf("config error: field %s failed %s validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
