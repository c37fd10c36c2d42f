package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sdejongh/diffnorris/pkg/models"
)

// HumanRenderer renders the diff in human-readable format, one line per
// entry followed by a summary line
type HumanRenderer struct {
	options RenderOptions

	red    *color.Color
	green  *color.Color
	yellow *color.Color
}

// NewHumanRenderer creates a new human-readable renderer
func NewHumanRenderer(options RenderOptions) *HumanRenderer {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	// Per-instance override so that rendering to a file stays plain even
	// when the process also renders colored output to a terminal
	if options.Color {
		red.EnableColor()
		green.EnableColor()
		yellow.EnableColor()
	} else {
		red.DisableColor()
		green.DisableColor()
		yellow.DisableColor()
	}

	return &HumanRenderer{
		options: options,
		red:     red,
		green:   green,
		yellow:  yellow,
	}
}

// Render writes one line per diff entry and a closing summary line.
// Removed entries are prefixed "- ", added entries "+ ", changed entries
// "~ ", failed comparisons "! ", and common entries without a visible
// difference a single space
func (r *HumanRenderer) Render(w io.Writer, report *models.DiffReport) error {
	for _, e := range report.Result.Entries {
		if r.options.Quiet && !e.IsVisibleDifference() {
			continue
		}

		var line string
		switch e.Status {
		case models.DiffRemoved:
			line = r.red.Sprintf("- %s", e.Path)
		case models.DiffAdded:
			line = r.green.Sprintf("+ %s", e.Path)
		case models.DiffCommon:
			switch e.Content {
			case models.ContentChanged:
				line = r.yellow.Sprintf("~ %s", e.Path)
			case models.ContentCompareFailed:
				line = r.red.Sprintf("! %s (%s)", e.Path, e.Reason)
			default:
				line = fmt.Sprintf(" %s", e.Path)
			}
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", r.summaryLine(report)); err != nil {
		return err
	}

	return nil
}

// summaryLine builds the closing counts line. Removed and added counts are
// always present; the common portion is suppressed in quiet mode and the
// content counts appear only when content comparison ran
func (r *HumanRenderer) summaryLine(report *models.DiffReport) string {
	s := report.Result.Summary

	parts := []string{
		fmt.Sprintf("%d removed", s.Removed),
		fmt.Sprintf("%d added", s.Added),
	}

	if !r.options.Quiet {
		parts = append(parts, fmt.Sprintf("%d common", s.Common))
		if report.CompareContent {
			parts = append(parts,
				fmt.Sprintf("%d unchanged", s.Unchanged),
				fmt.Sprintf("%d changed", s.Changed))
			if s.CompareFailed > 0 {
				parts = append(parts, fmt.Sprintf("%d compare failed", s.CompareFailed))
			}
		}
	}

	return strings.Join(parts, ", ")
}

// Name returns the renderer name
func (r *HumanRenderer) Name() string {
	return "human"
}
