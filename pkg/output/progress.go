package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// maxDisplayPathLen bounds how much of the in-flight file path is shown
const maxDisplayPathLen = 48

// compareBarTemplate shows completed comparisons plus the file in flight
var compareBarTemplate pb.ProgressBarTemplate = `{{counters . }} {{bar . "[" "=" ">" " " "]" }} {{percent . }} {{string . "file" }}`

// ProgressReporter receives live updates while a diff runs
// Implementations must be safe for concurrent use; comparisons run on
// multiple workers
type ProgressReporter interface {
	// Advance reports that another of total content comparisons finished
	Advance(done, total int)

	// FileProgress reports byte progress within a single file
	FileProgress(path string, current, total int64)

	// Finish clears the display
	Finish()
}

// NullProgress discards all updates
type NullProgress struct{}

// Advance discards the update
func (NullProgress) Advance(done, total int) {}

// FileProgress discards the update
func (NullProgress) FileProgress(path string, current, total int64) {}

// Finish does nothing
func (NullProgress) Finish() {}

// BarProgress renders a live progress bar while comparisons run
type BarProgress struct {
	writer io.Writer

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewBarProgress creates a progress bar display writing to the given writer
func NewBarProgress(writer io.Writer) *BarProgress {
	return &BarProgress{writer: writer}
}

// Advance moves the bar forward by one comparison. The bar is created on
// first use; the comparison total is not known before the merge completes
func (p *BarProgress) Advance(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = compareBarTemplate.New(total)
		p.bar.SetWriter(p.writer)
		p.bar.Set("file", "")
		p.bar.Start()
	}
	p.bar.Increment()
}

// FileProgress shows which file is being compared
func (p *BarProgress) FileProgress(path string, current, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	p.bar.Set("file", truncatePath(path, maxDisplayPathLen))
}

// Finish completes and clears the bar
func (p *BarProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// truncatePath shortens a path for display, keeping the trailing portion
// since the file name is the interesting part
func truncatePath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}
	return "..." + string(runes[len(runes)-maxLen+3:])
}

// NewProgressReporter selects the live display for a writer: a bar when
// the writer is a terminal, otherwise no display at all. Progress goes to
// stderr by convention so that diff output on stdout stays parseable
func NewProgressReporter(w io.Writer, enabled bool) ProgressReporter {
	if !enabled {
		return NullProgress{}
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewBarProgress(f)
	}
	return NullProgress{}
}
