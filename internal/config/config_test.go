package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.DatabasePath != DefaultDatabasePath {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, DefaultDatabasePath)
	}
	if cfg.Separator != "/" {
		t.Errorf("Separator = %q, want %q", cfg.Separator, "/")
	}
	if cfg.MaxRangeDays != DefaultMaxRangeDays {
		t.Errorf("MaxRangeDays = %d, want %d", cfg.MaxRangeDays, DefaultMaxRangeDays)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging = %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_PATH", "/data/harvest.db")
	t.Setenv("API_KEY", "secret-key-123")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("HARVEST_SEPARATOR", "-")
	t.Setenv("MAX_RANGE_DAYS", "31")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/harvest.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/harvest.db")
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.Separator != "-" {
		t.Errorf("Separator = %q, want %q", cfg.Separator, "-")
	}
	if cfg.MaxRangeDays != 31 {
		t.Errorf("MaxRangeDays = %d, want 31", cfg.MaxRangeDays)
	}
}

func TestLoad_InvalidReportsEveryProblem(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "0")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail")
	}
	for _, want := range []string{"PORT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestLoad_RejectsMalformedNumbers(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "eighty")
	t.Setenv("MAX_RANGE_DAYS", "1y")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail on non numeric values")
	}
	for _, want := range []string{"PORT", "MAX_RANGE_DAYS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestLoad_EmptySeparator(t *testing.T) {
	clearEnv(t)

	t.Setenv("HARVEST_SEPARATOR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Separator != "" {
		t.Errorf("Separator = %q, want empty", cfg.Separator)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:         8080,
			Env:          EnvDevelopment,
			DatabasePath: "./data/test.db",
			LogLevel:     "info",
			LogFormat:    "text",
			Separator:    "/",
			MaxRangeDays: 366,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"valid production config", func(c *Config) { c.Env = EnvProduction; c.APIKey = "required-in-prod" }, false},
		{"production requires API key", func(c *Config) { c.Env = EnvProduction }, true},
		{"invalid port - too low", func(c *Config) { c.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Port = 70000 }, true},
		{"invalid environment", func(c *Config) { c.Env = "invalid" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"empty separator is allowed", func(c *Config) { c.Separator = "" }, false},
		{"non positive range", func(c *Config) { c.MaxRangeDays = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvStaging
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

// clearEnv removes all config-related environment variables for the test
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "ENV", "DATABASE_PATH", "API_KEY",
		"LOG_LEVEL", "LOG_FORMAT", "HARVEST_SEPARATOR", "MAX_RANGE_DAYS",
	}
	for _, v := range vars {
		// Setenv registers the restore, Unsetenv clears it for this test
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}
