package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/diffnorris/pkg/compare"
	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/diff"
	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/models"
	"github.com/sdejongh/diffnorris/pkg/output"
)

// runDiff executes a diff between the two directory arguments
func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sourceRoot, targetRoot := args[0], args[1]

	if err := validateRoots(sourceRoot, targetRoot); err != nil {
		return err
	}
	if err := validateDiffFlags(cmd); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	operation, err := newDiffOperation(cfg, sourceRoot, targetRoot)
	if err != nil {
		return fmt.Errorf("failed to create diff operation: %w", err)
	}

	var comparator compare.Comparator
	if operation.CompareContent {
		switch operation.Method {
		case models.CompareHash:
			comparator = compare.NewHashComparator(operation.BufferSize)
		default:
			comparator = compare.NewBinaryComparator(operation.BufferSize)
		}
	}

	renderer, err := output.NewRenderer(cfg.Output.Format, output.RenderOptions{
		Color: output.ColorEnabled(cfg.Output.Color, cmd.OutOrStdout()),
		Quiet: cfg.Output.Quiet,
	})
	if err != nil {
		return err
	}

	// The progress bar shares stderr with diagnostics; stdout carries
	// only the rendered diff
	progressEnabled := cfg.Output.Progress && operation.CompareContent && cfg.Output.Format == "human"
	progress := output.NewProgressReporter(os.Stderr, progressEnabled)

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	engine := diff.NewEngine(comparator, progress, logger, operation)

	report, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	printSkipped(cmd.ErrOrStderr(), "source", report.SourceSkipped)
	printSkipped(cmd.ErrOrStderr(), "target", report.TargetSkipped)

	if err := renderer.Render(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to render diff: %w", err)
	}

	if diffFlags.Report != "" {
		if err := output.WriteReportFile(report, diffFlags.Report, diffFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// printSkipped reports unreadable entries on the error stream, never on
// stdout
func printSkipped(w io.Writer, tree string, skipped []models.ListingError) {
	for _, entry := range skipped {
		fmt.Fprintf(w, "warning: cannot read %s entry %s: %v\n", tree, entry.Path, entry.Err)
	}
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch cfg.Logging.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFileLogger(logging.FileConfig{
		Path:       cfg.Logging.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 5,
	})
}
