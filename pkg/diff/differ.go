package diff

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sdejongh/diffnorris/pkg/compare"
	"github.com/sdejongh/diffnorris/pkg/models"
)

// Options configures a single diff computation
type Options struct {
	// CompareContent enables content comparison for common paths
	CompareContent bool

	// Comparator resolves content verdicts (required when CompareContent is set)
	Comparator compare.Comparator

	// Workers bounds concurrent content comparisons (minimum 1)
	Workers int

	// OnProgress is invoked after each content comparison completes
	// It may be called from multiple goroutines
	OnProgress func(done, total int)
}

// Diff classifies every path of two listings as removed, added or common.
// Entries come back in ascending path order. When content comparison is
// enabled, common paths additionally carry a content verdict; comparison
// failures are recorded per entry and never abort the run.
//
// Both listings must be non-nil. Diff does not mutate them.
func Diff(ctx context.Context, source, target *models.Listing, options Options) (*models.DiffResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourcePaths := sortedPaths(source.Paths)
	targetPaths := sortedPaths(target.Paths)

	entries := merge(sourcePaths, targetPaths)

	if options.CompareContent && options.Comparator != nil {
		if err := resolveEntries(ctx, source.Root, target.Root, entries, options); err != nil {
			return nil, err
		}
	}

	result := &models.DiffResult{Entries: entries}
	for _, e := range entries {
		result.Summary.Record(e)
	}

	return result, nil
}

// sortedPaths returns paths in ascending order, copying only when the
// input is out of order. The merge depends on both inputs being sorted
func sortedPaths(paths []string) []string {
	if sort.StringsAreSorted(paths) {
		return paths
	}
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)
	return sorted
}

// merge walks two sorted path lists in lockstep and classifies every path
func merge(sourcePaths, targetPaths []string) []models.DiffEntry {
	entries := make([]models.DiffEntry, 0, len(sourcePaths)+len(targetPaths))

	i, j := 0, 0
	for i < len(sourcePaths) && j < len(targetPaths) {
		switch {
		case sourcePaths[i] < targetPaths[j]:
			entries = append(entries, models.DiffEntry{
				Path:   sourcePaths[i],
				Status: models.DiffRemoved,
			})
			i++
		case sourcePaths[i] > targetPaths[j]:
			entries = append(entries, models.DiffEntry{
				Path:   targetPaths[j],
				Status: models.DiffAdded,
			})
			j++
		default:
			entries = append(entries, models.DiffEntry{
				Path:    sourcePaths[i],
				Status:  models.DiffCommon,
				Content: models.ContentNotCompared,
			})
			i++
			j++
		}
	}

	// Drain whichever side remains
	for ; i < len(sourcePaths); i++ {
		entries = append(entries, models.DiffEntry{
			Path:   sourcePaths[i],
			Status: models.DiffRemoved,
		})
	}
	for ; j < len(targetPaths); j++ {
		entries = append(entries, models.DiffEntry{
			Path:   targetPaths[j],
			Status: models.DiffAdded,
		})
	}

	return entries
}

// resolveEntries runs content comparison for all common entries using a
// bounded worker pool. Each worker writes into its own entry slot, so no
// locking is needed around the entries slice
func resolveEntries(ctx context.Context, sourceRoot, targetRoot string, entries []models.DiffEntry, options Options) error {
	var commonIdx []int
	for i := range entries {
		if entries[i].Status == models.DiffCommon {
			commonIdx = append(commonIdx, i)
		}
	}
	if len(commonIdx) == 0 {
		return ctx.Err()
	}

	workers := options.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(commonIdx) {
		workers = len(commonIdx)
	}

	total := len(commonIdx)
	var done atomic.Int32

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				select {
				case <-ctx.Done():
					// Keep draining so the producer never blocks
					continue
				default:
				}

				resolveContent(ctx, sourceRoot, targetRoot, &entries[idx], options.Comparator)

				if options.OnProgress != nil {
					options.OnProgress(int(done.Add(1)), total)
				}
			}
		}()
	}

feed:
	for _, idx := range commonIdx {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- idx:
		}
	}
	close(indexes)
	wg.Wait()

	return ctx.Err()
}
