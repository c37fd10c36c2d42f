package config

import (
	"github.com/sdejongh/diffnorris/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Diff        DiffConfig        `yaml:"diff"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// DiffConfig holds diff-related settings
type DiffConfig struct {
	Depth          int                  `yaml:"depth"`           // Maximum traversal depth (0 = unlimited)
	CompareContent bool                 `yaml:"compare_content"` // Compare file contents for common paths
	Method         models.CompareMethod `yaml:"method"`          // Content comparison method
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	Workers    int   `yaml:"workers"`
	BufferSize int   `yaml:"buffer_size"`
	RateLimit  int64 `yaml:"rate_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Color    string `yaml:"color"`    // "auto", "always", or "never"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Report differences only
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "text" or "json"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Diff: DiffConfig{
			Depth:          0,
			CompareContent: false,
			Method:         models.CompareBinary,
		},
		Performance: PerformanceConfig{
			Workers:    5,
			BufferSize: 65536,
			RateLimit:  0,
		},
		Output: OutputConfig{
			Format:   "human",
			Color:    "auto",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Diff.Depth < 0 {
		return &models.ValidationError{
			Field:   "diff.depth",
			Message: "must not be negative",
		}
	}

	validMethods := map[models.CompareMethod]bool{models.CompareBinary: true, models.CompareHash: true}
	if !validMethods[c.Diff.Method] {
		return &models.ValidationError{
			Field:   "diff.method",
			Message: "must be 'binary' or 'hash'",
		}
	}

	if c.Performance.Workers < 1 {
		return &models.ValidationError{
			Field:   "performance.workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColorModes := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColorModes[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always', or 'never'",
		}
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'text' or 'json'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.Enabled && c.Logging.File == "" {
		return &models.ValidationError{
			Field:   "logging.file",
			Message: "required when logging is enabled",
		}
	}

	return nil
}
