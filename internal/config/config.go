package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/relance"
)

type Config struct {
	// Backend database
	DatabaseURL      string
	DatabaseMaxConns int

	// Redis settings cache (disabled when RedisAddr is empty)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SettingsCacheTTL time.Duration

	// Google Sheets export
	GoogleSheetURL string

	// Reminder threshold overrides, in days (0 = use agency settings)
	RelanceT1 int
	RelanceT2 int
	RelanceT3 int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Default returns the configuration used when nothing is set in the
// environment, or when the environment could not be parsed.
func Default() *Config {
	return &Config{
		DatabaseMaxConns: 4,
		SettingsCacheTTL: 10 * time.Minute,
		LogLevel:         "info",
		LogFormat:        "console",
		LogTimeFormat:    "2006-01-02T15:04:05Z07:00",
		LogOutput:        "stderr",
	}
}

func Load() (*Config, error) {
	def := Default()
	config := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		GoogleSheetURL: getEnv("GOOGLE_SHEET_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", def.LogLevel),
		LogFormat:      getEnv("LOG_FORMAT", def.LogFormat),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", def.LogTimeFormat),
		LogOutput:      getEnv("LOG_OUTPUT", def.LogOutput),
	}

	var err error
	if config.DatabaseMaxConns, err = getInt("DATABASE_MAX_CONNS", def.DatabaseMaxConns); err != nil {
		return nil, err
	}
	if config.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.SettingsCacheTTL, err = getDuration("SETTINGS_CACHE_TTL", def.SettingsCacheTTL); err != nil {
		return nil, err
	}
	if config.RelanceT1, err = getInt("RELANCE_T1", 0); err != nil {
		return nil, err
	}
	if config.RelanceT2, err = getInt("RELANCE_T2", 0); err != nil {
		return nil, err
	}
	if config.RelanceT3, err = getInt("RELANCE_T3", 0); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DatabaseMaxConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive")
	}
	if c.SettingsCacheTTL < 0 {
		return fmt.Errorf("SETTINGS_CACHE_TTL must not be negative")
	}
	if c.RelanceT1 < 0 || c.RelanceT2 < 0 || c.RelanceT3 < 0 {
		return fmt.Errorf("RELANCE_T1, RELANCE_T2 and RELANCE_T3 must not be negative")
	}
	return nil
}

// RequireDatabase reports whether a backend database is configured
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (or pass --input with a backend export)")
	}
	return nil
}

// RequireSheet reports whether a Google Sheet is configured for exports
func (c *Config) RequireSheet() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required")
	}
	return nil
}

// RelanceOverrides returns the thresholds forced through the environment.
// Zero fields are not overridden.
func (c *Config) RelanceOverrides() relance.Thresholds {
	return relance.Thresholds{T1: c.RelanceT1, T2: c.RelanceT2, T3: c.RelanceT3}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 10m): %w", key, err)
	}
	return d, nil
}
