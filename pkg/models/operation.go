package models

import (
	"time"
)

// CompareMethod defines how file contents are compared
type CompareMethod string

const (
	// CompareBinary compares byte-by-byte (exact, the default)
	CompareBinary CompareMethod = "binary"
	// CompareHash compares SHA-256 checksums
	CompareHash CompareMethod = "hash"
)

// DiffOperation represents a diff run configuration
type DiffOperation struct {
	ID              string
	SourceRoot      string
	TargetRoot      string
	Depth           int // 0 = unbounded
	CompareContent  bool
	Method          CompareMethod
	ExcludePatterns []string
	MaxWorkers      int
	BufferSize      int
	RateLimit       int64 // bytes per second, 0 = unlimited
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *DiffOperation) Validate() error {
	if op.SourceRoot == "" {
		return &ValidationError{Field: "SourceRoot", Message: "source root is required"}
	}
	if op.TargetRoot == "" {
		return &ValidationError{Field: "TargetRoot", Message: "target root is required"}
	}
	if op.Depth < 0 {
		return &ValidationError{Field: "Depth", Message: "depth cannot be negative"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	if op.Method != CompareBinary && op.Method != CompareHash {
		return &ValidationError{Field: "Method", Message: "comparison method must be 'binary' or 'hash'"}
	}
	return nil
}

// OperationStatus represents the overall result of a diff run
type OperationStatus string

const (
	// StatusCompleted indicates the run finished without diagnostics
	StatusCompleted OperationStatus = "completed"
	// StatusCompletedWithErrors indicates the run finished but some
	// entries were skipped or could not be compared
	StatusCompletedWithErrors OperationStatus = "completed_with_errors"
	// StatusFailed indicates the run aborted
	StatusFailed OperationStatus = "failed"
	// StatusCancelled indicates the run was cancelled
	StatusCancelled OperationStatus = "cancelled"
)

// ExitCode returns the process exit code for the run status
// Best-effort runs with per-entry diagnostics still exit zero; only an
// aborted run is a process-level failure
func (s OperationStatus) ExitCode() int {
	switch s {
	case StatusCompleted, StatusCompletedWithErrors:
		return 0
	case StatusFailed, StatusCancelled:
		return 1
	default:
		return 1
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
