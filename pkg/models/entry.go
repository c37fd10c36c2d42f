package models

// DiffStatus classifies a path's relation to the two trees
type DiffStatus string

const (
	// DiffRemoved indicates the path exists only in the source tree
	DiffRemoved DiffStatus = "removed"
	// DiffAdded indicates the path exists only in the target tree
	DiffAdded DiffStatus = "added"
	// DiffCommon indicates the path exists in both trees
	DiffCommon DiffStatus = "common"
)

// ContentStatus classifies the content verdict of a common entry
type ContentStatus string

const (
	// ContentNotCompared indicates content comparison was disabled or
	// neither side is a regular file
	ContentNotCompared ContentStatus = "not_compared"
	// ContentUnchanged indicates both sides are byte-identical regular files
	ContentUnchanged ContentStatus = "unchanged"
	// ContentChanged indicates the sides differ in content or in type
	ContentChanged ContentStatus = "changed"
	// ContentCompareFailed indicates the comparison could not be performed
	// (unreadable file, stat failure); the run continues regardless
	ContentCompareFailed ContentStatus = "compare_failed"
)

// DiffEntry represents one classified path in a diff result
type DiffEntry struct {
	// Path is the entry path relative to its tree root, slash-separated
	Path string

	// Status is the membership classification
	Status DiffStatus

	// Content is the content verdict; only meaningful when Status is DiffCommon
	Content ContentStatus

	// Reason describes why a comparison failed (set with ContentCompareFailed)
	Reason string
}

// IsVisibleDifference reports whether the entry represents a difference
// between the trees (anything except an unchanged or uncompared common path)
func (e DiffEntry) IsVisibleDifference() bool {
	if e.Status != DiffCommon {
		return true
	}
	return e.Content == ContentChanged || e.Content == ContentCompareFailed
}
