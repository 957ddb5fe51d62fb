package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ELECTION_"

// ErrInvalidConfig is returned when the loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Config holds all application-level configuration
type Config struct {
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// Artifacts
	DataDir      string `koanf:"data_dir" validate:"required"`
	ImagesDir    string `koanf:"images_dir" validate:"required"`
	RawFile      string `koanf:"raw_file" validate:"required"`
	SeatFile     string `koanf:"seat_file" validate:"required"`
	DivisionFile string `koanf:"division_file" validate:"required"`
	MetricsFile  string `koanf:"metrics_file"` // node-exporter textfile, empty disables
	EconomyFile  string `koanf:"economy_file"` // overrides the embedded reference table

	// Scraper
	BaseURL          string `koanf:"base_url" validate:"required,url"`
	TotalSeats       int    `koanf:"total_seats" validate:"gt=0"`
	MaxConcurrency   int    `koanf:"max_concurrency" validate:"gte=1,lte=16"`
	RateLimitDelayMS int    `koanf:"rate_limit_delay_ms" validate:"gte=0"`
	MaxRetries       int    `koanf:"max_retries" validate:"gte=1"`
	PageTimeoutSec   int    `koanf:"page_timeout_sec" validate:"gt=0"`

	// Database, empty driver disables SQL persistence
	DBDriver    string `koanf:"db_driver" validate:"omitempty,oneof=postgres sqlite"`
	DatabaseURL string `koanf:"database_url" validate:"required_with=DBDriver"`

	// Stages
	SkipScrape   bool `koanf:"skip_scrape"`
	ForceScrape  bool `koanf:"force_scrape"` // scrape even when the raw file exists
	SkipCharts   bool `koanf:"skip_charts"`
	ForceProcess bool `koanf:"force_process"` // re-aggregate even when the seat file exists
	TreeMaxDepth int  `koanf:"tree_max_depth" validate:"gte=1,lte=10"`
}

// New returns a Config populated with defaults
func New() *Config {
	return &Config{
		LogLevel:         "info",
		DataDir:          "data",
		ImagesDir:        "images",
		RawFile:          "data/raw_election_data.csv",
		SeatFile:         "data/seat_wise_votes.csv",
		DivisionFile:     "data/division_analysis.csv",
		BaseURL:          "https://election.somoynews.tv/seat/",
		TotalSeats:       300,
		MaxConcurrency:   2,
		RateLimitDelayMS: 800,
		MaxRetries:       3,
		PageTimeoutSec:   10,
		TreeMaxDepth:     3,
	}
}

// Load builds a Config by layering, lowest to highest precedence:
//  1. defaults (New)
//  2. YAML file named by ELECTION_CONFIG
//  3. .env file (or ELECTION_ENV_FILE), which only fills unset variables
//  4. ELECTION_* environment variables
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envFile := os.Getenv(envPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	// ELECTION_TOTAL_SEATS -> total_seats
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
