package diff

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sdejongh/diffnorris/pkg/compare"
	"github.com/sdejongh/diffnorris/pkg/lister"
	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/models"
	"github.com/sdejongh/diffnorris/pkg/output"
	"github.com/sdejongh/diffnorris/pkg/ratelimit"
)

// Engine orchestrates a diff run: it lists both trees, merges the
// listings and assembles the final report
type Engine struct {
	comparator compare.Comparator
	progress   output.ProgressReporter
	logger     logging.Logger
	operation  *models.DiffOperation
}

// NewEngine creates a new diff engine
// The comparator may be nil when the operation does not compare content
func NewEngine(
	comparator compare.Comparator,
	progress output.ProgressReporter,
	logger logging.Logger,
	operation *models.DiffOperation,
) *Engine {
	return &Engine{
		comparator: comparator,
		progress:   progress,
		logger:     logger,
		operation:  operation,
	}
}

// Run executes the diff operation and returns the report
// Per-entry failures (unreadable entries, failed comparisons) are carried
// in the report; only validation errors, listing-level failures and
// cancellation abort the run
func (e *Engine) Run(ctx context.Context) (*models.DiffReport, error) {
	if err := e.operation.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	report := &models.DiffReport{
		OperationID:    e.operation.ID,
		SourceRoot:     e.operation.SourceRoot,
		TargetRoot:     e.operation.TargetRoot,
		Depth:          e.operation.Depth,
		CompareContent: e.operation.CompareContent,
		Method:         e.operation.Method,
		StartTime:      startTime,
		Status:         models.StatusCompleted,
	}

	if e.logger != nil {
		e.logger.Info(ctx, "Starting diff operation", logging.Fields{
			"operation_id":    e.operation.ID,
			"source":          e.operation.SourceRoot,
			"target":          e.operation.TargetRoot,
			"depth":           e.operation.Depth,
			"compare_content": e.operation.CompareContent,
			"max_workers":     e.operation.MaxWorkers,
		})
	}

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if e.progress != nil {
		defer e.progress.Finish()
	}

	// Phase 1: list both trees in parallel; they are fully independent
	listerOptions := lister.Options{
		Depth:   e.operation.Depth,
		Exclude: e.operation.ExcludePatterns,
	}

	sourceLister, err := lister.New(e.operation.SourceRoot, listerOptions)
	if err != nil {
		return e.abort(ctx, report, err)
	}
	targetLister, err := lister.New(e.operation.TargetRoot, listerOptions)
	if err != nil {
		return e.abort(ctx, report, err)
	}

	// The listers resolved the roots to canonical form
	report.SourceRoot = sourceLister.Root()
	report.TargetRoot = targetLister.Root()

	var (
		wg            sync.WaitGroup
		sourceListing *models.Listing
		targetListing *models.Listing
		sourceErr     error
		targetErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceListing, sourceErr = sourceLister.List(ctx)
	}()
	go func() {
		defer wg.Done()
		targetListing, targetErr = targetLister.List(ctx)
	}()
	wg.Wait()

	if sourceErr != nil {
		return e.abort(ctx, report, sourceErr)
	}
	if targetErr != nil {
		return e.abort(ctx, report, targetErr)
	}

	report.SourceSkipped = sourceListing.Skipped
	report.TargetSkipped = targetListing.Skipped
	e.logSkipped(ctx, "source", sourceListing.Skipped)
	e.logSkipped(ctx, "target", targetListing.Skipped)

	if e.logger != nil {
		e.logger.Info(ctx, "Listing completed", logging.Fields{
			"source_entries": len(sourceListing.Paths),
			"target_entries": len(targetListing.Paths),
			"source_skipped": len(sourceListing.Skipped),
			"target_skipped": len(targetListing.Skipped),
		})
	}

	// Phase 2: wire live reporting and rate limiting into the comparator
	e.setupComparator(ctx)

	// Phase 3: merge and classify
	result, err := Diff(ctx, sourceListing, targetListing, Options{
		CompareContent: e.operation.CompareContent,
		Comparator:     e.comparator,
		Workers:        e.operation.MaxWorkers,
		OnProgress: func(done, total int) {
			if e.progress != nil {
				e.progress.Advance(done, total)
			}
		},
	})
	if err != nil {
		return e.abort(ctx, report, err)
	}

	report.Result = result
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	if report.HasDiagnostics() {
		report.Status = models.StatusCompletedWithErrors
	}

	if e.logger != nil {
		e.logger.Info(ctx, "Diff operation completed", logging.Fields{
			"operation_id":   e.operation.ID,
			"duration":       report.Duration.String(),
			"status":         string(report.Status),
			"removed":        result.Summary.Removed,
			"added":          result.Summary.Added,
			"common":         result.Summary.Common,
			"changed":        result.Summary.Changed,
			"compare_failed": result.Summary.CompareFailed,
		})
	}

	return report, nil
}

// setupComparator connects the comparator's optional callbacks: byte-level
// progress feeds the live display, and reads go through the rate limiter
// when a limit is configured
func (e *Engine) setupComparator(ctx context.Context) {
	if e.comparator == nil {
		return
	}

	if comp, ok := e.comparator.(interface {
		SetProgressCallback(func(path string, current, total int64))
	}); ok {
		comp.SetProgressCallback(func(path string, current, total int64) {
			if e.progress != nil {
				e.progress.FileProgress(path, current, total)
			}
		})
	}

	if e.operation.RateLimit > 0 {
		if comp, ok := e.comparator.(compare.RateLimitedComparator); ok {
			limiter := ratelimit.NewLimiter(e.operation.RateLimit)
			comp.SetReaderWrapper(func(r io.Reader) io.Reader {
				return ratelimit.NewReader(ctx, r, limiter)
			})

			if e.logger != nil {
				e.logger.Info(ctx, "Rate limiting enabled", logging.Fields{
					"bytes_per_second": e.operation.RateLimit,
				})
			}
		}
	}
}

// logSkipped records listing diagnostics for one tree
func (e *Engine) logSkipped(ctx context.Context, tree string, skipped []models.ListingError) {
	if e.logger == nil {
		return
	}
	for _, s := range skipped {
		e.logger.Warn(ctx, "Skipped unreadable entry", logging.Fields{
			"tree":  tree,
			"path":  s.Path,
			"error": s.Err.Error(),
		})
	}
}

// abort finalizes the report for a run that did not complete
func (e *Engine) abort(ctx context.Context, report *models.DiffReport, err error) (*models.DiffReport, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		report.Status = models.StatusCancelled
	} else {
		report.Status = models.StatusFailed
	}
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	if e.logger != nil {
		e.logger.Error(ctx, "Diff operation aborted", err, logging.Fields{
			"operation_id": e.operation.ID,
			"status":       string(report.Status),
		})
	}

	return report, err
}
