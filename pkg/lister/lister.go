package lister

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sdejongh/diffnorris/internal/platform"
	"github.com/sdejongh/diffnorris/pkg/models"
)

// Options controls how a tree is listed
type Options struct {
	// Depth bounds traversal in path segments below the root (0 = unlimited)
	// Depth 1 lists only the immediate children of the root
	Depth int
	// Exclude holds glob patterns for entries to skip
	Exclude []string
}

// Lister enumerates filesystem entries under a single root
type Lister struct {
	root    string
	options Options
}

// New creates a lister for the given root directory
// The root is resolved to a canonical absolute path so that relative paths
// are well-defined regardless of how the root was specified
func New(root string, options Options) (*Lister, error) {
	canonical, err := platform.Canonicalize(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", canonical)
	}

	return &Lister{
		root:    canonical,
		options: options,
	}, nil
}

// Root returns the canonical root path
func (l *Lister) Root() string {
	return l.root
}

// List walks the tree and returns all entries as sorted relative paths
// Directories count as entries themselves. Entries that cannot be read are
// recorded in Listing.Skipped and the walk continues
func (l *Lister) List(ctx context.Context) (*models.Listing, error) {
	listing := &models.Listing{Root: l.root}

	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// Per-entry failure: record it and keep walking
			listing.Skipped = append(listing.Skipped, models.ListingError{Path: p, Err: err})
			return nil
		}

		// The root itself is not an entry
		if p == l.root {
			return nil
		}

		relPath, relErr := filepath.Rel(l.root, p)
		if relErr != nil {
			listing.Skipped = append(listing.Skipped, models.ListingError{Path: p, Err: relErr})
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if shouldExclude(relPath, d.IsDir(), l.options.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		listing.Paths = append(listing.Paths, relPath)

		// Don't descend past the depth limit
		depth := strings.Count(relPath, "/") + 1
		if l.options.Depth > 0 && depth >= l.options.Depth && d.IsDir() {
			return filepath.SkipDir
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.root, err)
	}

	// Walk order follows directory traversal, not the path order the
	// differ needs, so establish the total order here
	sort.Strings(listing.Paths)

	return listing, nil
}
