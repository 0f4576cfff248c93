// Package config provides process configuration for dbdrill.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config holds everything the process needs before the first screen: where
// the database is, where the resources file is, and how chatty to be.
type Config struct {
	DatabaseURL   string
	ResourcesFile string
	LogLevel      string
}

// Validate checks the configuration before any connection is attempted.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.ResourcesFile, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// SlogLevel maps the configured level string to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
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

// Load reads configuration with flag > environment > config file > default
// precedence. Environment variables use the DBDRILL_ prefix
// (DBDRILL_DB_URL, DBDRILL_RESOURCES, DBDRILL_LOG_LEVEL). The config file is
// optional; flags are applied by the caller after Load.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_url", "")
	v.SetDefault("resources", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("DBDRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		DatabaseURL:   v.GetString("db_url"),
		ResourcesFile: v.GetString("resources"),
		LogLevel:      v.GetString("log_level"),
	}, nil
}
