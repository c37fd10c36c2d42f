package compare

import (
	"context"
	"io"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Equal indicates file contents are identical
	Equal Result = "equal"
	// Different indicates file contents differ
	Different Result = "different"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	Result Result
	Reason string
}

// ReaderWrapper wraps a file reader before comparison reads (e.g., for rate limiting)
type ReaderWrapper func(r io.Reader) io.Reader

// Comparator defines the interface for file content comparison algorithms
type Comparator interface {
	// Compare compares the contents of two regular files
	Compare(ctx context.Context, sourcePath, targetPath string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// RateLimitedComparator is implemented by comparators whose reads can be wrapped
type RateLimitedComparator interface {
	Comparator

	// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
	SetReaderWrapper(wrapper ReaderWrapper)
}
