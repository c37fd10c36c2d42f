package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/diffnorris/internal/platform"
	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/models"
)

// validateRoots checks that both roots exist and are directories before
// any listing begins
func validateRoots(source, target string) error {
	for _, root := range []string{source, target} {
		if err := platform.ValidatePath(root); err != nil {
			return err
		}

		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", root)
		}
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path is not a directory: %s", root)
		}
	}

	return nil
}

// validateDiffFlags validates the diff flags of the root command
func validateDiffFlags(cmd *cobra.Command) error {
	// An explicit depth must be positive; zero only means unlimited when
	// the flag is absent
	if cmd.Flags().Changed("depth") && diffFlags.Depth < 1 {
		return fmt.Errorf("invalid depth: %d (must be at least 1)", diffFlags.Depth)
	}

	if cmd.Flags().Changed("parallel") && diffFlags.Parallel < 1 {
		return fmt.Errorf("invalid parallel count: %d (must be at least 1)", diffFlags.Parallel)
	}

	if diffFlags.Method != "" {
		validMethods := map[string]bool{"binary": true, "hash": true}
		if !validMethods[diffFlags.Method] {
			return fmt.Errorf("invalid comparison method: %s (valid: binary, hash)", diffFlags.Method)
		}
	}

	if diffFlags.Output != "" {
		validFormats := map[string]bool{"human": true, "json": true}
		if !validFormats[diffFlags.Output] {
			return fmt.Errorf("invalid output format: %s (valid: human, json)", diffFlags.Output)
		}
	}

	validReportFormats := map[string]bool{"human": true, "json": true}
	if !validReportFormats[diffFlags.ReportFormat] {
		return fmt.Errorf("invalid report format: %s (valid: human, json)", diffFlags.ReportFormat)
	}

	for _, pattern := range diffFlags.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	if diffFlags.RateLimit != "" {
		if _, err := parseRateLimit(diffFlags.RateLimit); err != nil {
			return err
		}
	}

	if diffFlags.LogFormat != "" {
		validLogFormats := map[string]bool{"text": true, "json": true}
		if !validLogFormats[diffFlags.LogFormat] {
			return fmt.Errorf("invalid log format: %s (valid: text, json)", diffFlags.LogFormat)
		}
	}

	if diffFlags.LogLevel != "" {
		validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLogLevels[diffFlags.LogLevel] {
			return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", diffFlags.LogLevel)
		}
	}

	return nil
}

// parseRateLimit converts a rate like "10M" or "512K" to bytes per second
// An optional trailing B is tolerated, so "10MB" works too
func parseRateLimit(s string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	trimmed = strings.TrimSuffix(trimmed, "B")

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(trimmed, "K"):
		multiplier = 1024
		trimmed = strings.TrimSuffix(trimmed, "K")
	case strings.HasSuffix(trimmed, "M"):
		multiplier = 1024 * 1024
		trimmed = strings.TrimSuffix(trimmed, "M")
	case strings.HasSuffix(trimmed, "G"):
		multiplier = 1024 * 1024 * 1024
		trimmed = strings.TrimSuffix(trimmed, "G")
	}

	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate limit: %s (use a number with an optional K, M or G suffix)", s)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid rate limit: %s (must be positive)", s)
	}

	return value * multiplier, nil
}

// loadConfig loads configuration from the --config file or the default
// location
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}

	return config.LoadDefault()
}

// applyFlagsToConfig overrides configuration values with explicit flags
func applyFlagsToConfig(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("depth") {
		cfg.Diff.Depth = diffFlags.Depth
	}
	if diffFlags.CompareContent {
		cfg.Diff.CompareContent = true
	}
	if diffFlags.Method != "" {
		cfg.Diff.Method = models.CompareMethod(diffFlags.Method)
	}
	if diffFlags.Parallel > 0 {
		cfg.Performance.Workers = diffFlags.Parallel
	}
	if diffFlags.RateLimit != "" {
		// Already validated
		limit, _ := parseRateLimit(diffFlags.RateLimit)
		cfg.Performance.RateLimit = limit
	}
	if len(diffFlags.Exclude) > 0 {
		cfg.Exclude = diffFlags.Exclude
	}
	if diffFlags.Output != "" {
		cfg.Output.Format = diffFlags.Output
	}
	if diffFlags.Quiet {
		cfg.Output.Quiet = true
		cfg.Output.Progress = false
	}
	if diffFlags.NoColor {
		cfg.Output.Color = "never"
	}
	if diffFlags.NoProgress {
		cfg.Output.Progress = false
	}
	if diffFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = diffFlags.LogFile
	}
	if diffFlags.LogFormat != "" {
		cfg.Logging.Format = diffFlags.LogFormat
	}
	if diffFlags.LogLevel != "" {
		cfg.Logging.Level = diffFlags.LogLevel
	}
}

// newDiffOperation builds and validates the operation for a single run
func newDiffOperation(cfg *config.Config, source, target string) (*models.DiffOperation, error) {
	operation := &models.DiffOperation{
		ID:              uuid.New().String(),
		SourceRoot:      source,
		TargetRoot:      target,
		Depth:           cfg.Diff.Depth,
		CompareContent:  cfg.Diff.CompareContent,
		Method:          cfg.Diff.Method,
		ExcludePatterns: cfg.Exclude,
		MaxWorkers:      cfg.Performance.Workers,
		BufferSize:      cfg.Performance.BufferSize,
		RateLimit:       cfg.Performance.RateLimit,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
