package diff

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sdejongh/diffnorris/pkg/compare"
	"github.com/sdejongh/diffnorris/pkg/models"
)

// resolveContent fills in the content verdict for a single common entry
func resolveContent(ctx context.Context, sourceRoot, targetRoot string, e *models.DiffEntry, comparator compare.Comparator) {
	sourcePath := filepath.Join(sourceRoot, filepath.FromSlash(e.Path))
	targetPath := filepath.Join(targetRoot, filepath.FromSlash(e.Path))

	// Lstat keeps the verdict consistent with the walk, which lists
	// symlinks as plain entries and never follows them
	sourceInfo, err := os.Lstat(sourcePath)
	if err != nil {
		e.Content = models.ContentCompareFailed
		e.Reason = err.Error()
		return
	}
	targetInfo, err := os.Lstat(targetPath)
	if err != nil {
		e.Content = models.ContentCompareFailed
		e.Reason = err.Error()
		return
	}

	sourceRegular := sourceInfo.Mode().IsRegular()
	targetRegular := targetInfo.Mode().IsRegular()

	switch {
	case sourceRegular != targetRegular:
		// The entry type changed between the trees, which is a content
		// difference in its own right
		e.Content = models.ContentChanged
		return
	case !sourceRegular:
		// Two directories (or other non-regular entries) carry no
		// comparable content
		e.Content = models.ContentNotCompared
		return
	}

	comparison, err := comparator.Compare(ctx, sourcePath, targetPath)
	if err != nil {
		e.Content = models.ContentCompareFailed
		e.Reason = err.Error()
		return
	}

	if comparison.Result == compare.Equal {
		e.Content = models.ContentUnchanged
	} else {
		e.Content = models.ContentChanged
	}
}
