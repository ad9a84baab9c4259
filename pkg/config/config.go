package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
	"github.com/Sumatoshi-tech/aliasguard/pkg/safeconv"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("lint workers must not be negative")
	ErrInvalidMaxWarnings = errors.New("lint max warnings must be -1 or greater")
	ErrInvalidFileSize    = errors.New("invalid lint max file size")
	ErrInvalidLogLevel    = errors.New("invalid logging level")
	ErrInvalidExtension   = errors.New("extension must start with a dot")
)

// Config holds the project configuration for aliasguard.
type Config struct {
	Rules      map[string]string `mapstructure:"rules"`
	Ignores    []string          `mapstructure:"ignores"`
	Extensions []string          `mapstructure:"extensions"`
	Lint       LintConfig        `mapstructure:"lint"`
	Logging    LoggingConfig     `mapstructure:"logging"`
	Telemetry  TelemetryConfig   `mapstructure:"telemetry"`
}

// LintConfig tunes a lint run.
type LintConfig struct {
	MaxFileSize string `mapstructure:"max_file_size"`
	Workers     int    `mapstructure:"workers"`
	MaxWarnings int    `mapstructure:"max_warnings"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	MetricsFile  string `mapstructure:"metrics_file"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.Lint.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Lint.Workers)
	}

	if c.Lint.MaxWarnings < -1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxWarnings, c.Lint.MaxWarnings)
	}

	_, err := c.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	_, err = c.LogLevel()
	if err != nil {
		return err
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	_, err = c.Severities()

	return err
}

// Severities parses the configured rule severities.
func (c *Config) Severities() (map[string]lint.Severity, error) {
	severities := make(map[string]lint.Severity, len(c.Rules))

	for _, name := range slices.Sorted(maps.Keys(c.Rules)) {
		severity, err := lint.ParseSeverity(c.Rules[name])
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}

		severities[name] = severity
	}

	return severities, nil
}

// MaxFileSizeBytes parses lint.max_file_size. Zero disables the limit.
func (c *Config) MaxFileSizeBytes() (int64, error) {
	if strings.TrimSpace(c.Lint.MaxFileSize) == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.Lint.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidFileSize, c.Lint.MaxFileSize, err)
	}

	return safeconv.ClampUint64ToInt64(size), nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}
