// Package config reads service settings from the environment. A .env file
// in the working directory is loaded first when present; variables already
// set in the environment win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the resolved service configuration.
type Config struct {
	Port         int
	Env          string
	DatabasePath string

	// APIKey guards POST /api/v1/days/seed. Optional in development.
	APIKey string

	LogLevel  string
	LogFormat string

	Separator    string // joins harvest-year tokens when a request names none; may be empty
	MaxRangeDays int    // longest date range a single seed may cover
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Defaults
const (
	DefaultPort         = 8080
	DefaultDatabasePath = "./data/safra.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultSeparator    = "/"
	DefaultMaxRangeDays = 366
)

var (
	environments = []string{EnvDevelopment, EnvStaging, EnvProduction}
	logLevels    = []string{"debug", "info", "warn", "error"}
	logFormats   = []string{"json", "text"}
)

// Load resolves the configuration and validates it. Every problem found,
// including unparsable numbers, is reported in a single joined error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var env envReader
	cfg := &Config{
		Port:         env.getInt("PORT", DefaultPort),
		Env:          env.get("ENV", EnvDevelopment),
		DatabasePath: env.get("DATABASE_PATH", DefaultDatabasePath),
		APIKey:       env.get("API_KEY", ""),
		LogLevel:     env.get("LOG_LEVEL", DefaultLogLevel),
		LogFormat:    env.get("LOG_FORMAT", DefaultLogFormat),
		Separator:    env.getOrEmpty("HARVEST_SEPARATOR", DefaultSeparator),
		MaxRangeDays: env.getInt("MAX_RANGE_DAYS", DefaultMaxRangeDays),
	}

	if err := errors.Join(append(env.errs, cfg.Validate())...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	errs = append(errs,
		oneOf("ENV", c.Env, environments),
		oneOf("LOG_LEVEL", c.LogLevel, logLevels),
		oneOf("LOG_FORMAT", c.LogFormat, logFormats),
	)
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}
	if c.IsProduction() && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}
	if c.MaxRangeDays < 1 {
		errs = append(errs, fmt.Errorf("MAX_RANGE_DAYS must be positive, got %d", c.MaxRangeDays))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of: %s; got %q", key, strings.Join(allowed, ", "), value)
}

// envReader looks up variables and remembers values it could not parse.
type envReader struct {
	errs []error
}

// get treats an empty variable like an unset one.
func (e *envReader) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getOrEmpty keeps an explicitly empty variable.
func (e *envReader) getOrEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func (e *envReader) getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}
