package models

import (
	"fmt"
)

// Listing represents one tree's enumerated entries
type Listing struct {
	// Root is the canonical absolute path of the tree root
	Root string

	// Paths are entry paths relative to Root, slash-separated,
	// sorted ascending by byte-wise comparison, duplicate-free
	Paths []string

	// Skipped records entries that could not be read during enumeration
	// These are recoverable diagnostics, not failures of the listing
	Skipped []ListingError
}

// ListingError records a single entry skipped during listing
type ListingError struct {
	Path string
	Err  error
}

func (e ListingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e ListingError) Unwrap() error {
	return e.Err
}
