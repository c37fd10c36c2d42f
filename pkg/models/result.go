package models

// Summary holds the aggregate counts derived from a diff result
type Summary struct {
	// Removed is the number of paths present only in the source tree
	Removed int

	// Added is the number of paths present only in the target tree
	Added int

	// Common is the number of paths present in both trees
	Common int

	// Unchanged is the number of common paths with identical content
	// (only counted when content comparison is enabled)
	Unchanged int

	// Changed is the number of common paths whose content or type differs
	Changed int

	// CompareFailed is the number of common paths whose comparison failed
	CompareFailed int
}

// Total returns the number of classified entries
func (s Summary) Total() int {
	return s.Removed + s.Added + s.Common
}

// Record updates the counts for one classified entry
func (s *Summary) Record(e DiffEntry) {
	switch e.Status {
	case DiffRemoved:
		s.Removed++
	case DiffAdded:
		s.Added++
	case DiffCommon:
		s.Common++
		switch e.Content {
		case ContentUnchanged:
			s.Unchanged++
		case ContentChanged:
			s.Changed++
		case ContentCompareFailed:
			s.CompareFailed++
		}
	}
}

// DiffResult is the ordered outcome of merging two listings
// Entries appear in non-decreasing path order (the merged order of the two
// inputs); the result is computed once per run and not mutated afterward
type DiffResult struct {
	Entries []DiffEntry
	Summary Summary
}
