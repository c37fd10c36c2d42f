package lister

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// shouldExclude checks if a relative path matches any exclusion pattern
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log (matched against the base name)
//   - Directory patterns: .git/, node_modules/ (matched against directory entries)
//   - Path patterns: build/*, **/testdata/*
func shouldExclude(relPath string, isDir bool, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	// Normalize path separators for cross-platform support
	normalizedPath := filepath.ToSlash(relPath)
	baseName := path.Base(normalizedPath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalizedPattern := filepath.ToSlash(pattern)

		// Directory patterns (trailing slash) match directory entries only
		// The lister prunes the subtree of an excluded directory
		if dirPattern, ok := strings.CutSuffix(normalizedPattern, "/"); ok {
			if !isDir {
				continue
			}
			if doublestar.MatchUnvalidated(dirPattern, normalizedPath) ||
				doublestar.MatchUnvalidated(dirPattern, baseName) {
				return true
			}
			continue
		}

		// Patterns containing a separator apply to the full relative path
		if strings.Contains(normalizedPattern, "/") {
			if doublestar.MatchUnvalidated(normalizedPattern, normalizedPath) {
				return true
			}
			continue
		}

		// Bare patterns apply to the base name
		if doublestar.MatchUnvalidated(normalizedPattern, baseName) {
			return true
		}
	}

	return false
}
