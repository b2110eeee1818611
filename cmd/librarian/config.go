package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	formatText = "text"
	formatJSON = "json"

	otelLoggerBridge = "bridge"
	otelLoggerDirect = "direct"
)

// ErrInvalidConfig is returned when a configuration value is outside its allowed set.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything the librarian command reads from the environment.
// Command line flags override individual values.
type Config struct {
	LibraryName    string `env:"LIBRARY_NAME"    envDefault:"City Library"`
	LibraryAddress string `env:"LIBRARY_ADDRESS" envDefault:"1 Main Street"`
	LibraryPhone   string `env:"LIBRARY_PHONE"   envDefault:"+43 1 234 5678"`
	LibraryEmail   string `env:"LIBRARY_EMAIL"   envDefault:"desk@city-library.example"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ReportFormat   string `env:"REPORT_FORMAT"    envDefault:"text"`
	ReportTopLimit int    `env:"REPORT_TOP_LIMIT" envDefault:"3"`

	ObservabilityEnabled bool   `env:"OBSERVABILITY_ENABLED" envDefault:"false"`
	ObservabilityLogger  string `env:"OBSERVABILITY_LOGGER"  envDefault:"bridge"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if !slices.Contains([]string{formatText, formatJSON}, c.LogFormat) {
		errs = append(errs, fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat))
	}

	if !slices.Contains([]string{formatText, formatJSON}, c.ReportFormat) {
		errs = append(errs, fmt.Errorf("%w: report format %q", ErrInvalidConfig, c.ReportFormat))
	}

	if !slices.Contains([]string{otelLoggerBridge, otelLoggerDirect}, c.ObservabilityLogger) {
		errs = append(errs, fmt.Errorf("%w: observability logger %q", ErrInvalidConfig, c.ObservabilityLogger))
	}

	return errors.Join(errs...)
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}

	return level, nil
}

// LibraryInfo is the descriptive data of the demo library.
func (c Config) LibraryInfo() circulation.Info {
	return circulation.Info{
		Name:    c.LibraryName,
		Address: c.LibraryAddress,
		Phone:   c.LibraryPhone,
		Email:   c.LibraryEmail,
	}
}
