package models

import (
	"time"
)

// DiffReport represents the full outcome of a diff run
type DiffReport struct {
	// Operation details
	OperationID    string
	SourceRoot     string
	TargetRoot     string
	Depth          int
	CompareContent bool
	Method         CompareMethod

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// The classified diff
	Result *DiffResult

	// Entries skipped during listing, per tree
	SourceSkipped []ListingError
	TargetSkipped []ListingError

	// Overall status
	Status OperationStatus
}

// HasDiagnostics reports whether any entry was skipped or failed to compare
func (r *DiffReport) HasDiagnostics() bool {
	if len(r.SourceSkipped) > 0 || len(r.TargetSkipped) > 0 {
		return true
	}
	return r.Result != nil && r.Result.Summary.CompareFailed > 0
}
