package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/sdejongh/diffnorris/pkg/models"
)

// Renderer defines the interface for rendering a finished diff report
// Implementations include human-readable and JSON renderers
type Renderer interface {
	// Render writes the report to the writer
	Render(w io.Writer, report *models.DiffReport) error

	// Name returns the renderer name
	Name() string
}

// RenderOptions controls presentation details of the human renderer
type RenderOptions struct {
	// Color enables ANSI color on rendered lines
	Color bool

	// Quiet suppresses common entries without a visible difference and
	// the common portion of the summary
	Quiet bool
}

// NewRenderer creates a renderer for the given format ("human" or "json")
func NewRenderer(format string, options RenderOptions) (Renderer, error) {
	switch format {
	case "human":
		return NewHumanRenderer(options), nil
	case "json":
		return NewJSONRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use: human, json)", format)
	}
}

// ColorEnabled resolves a color mode ("auto", "always", "never") against
// the writer. "auto" enables color only for terminals, and honors the
// NO_COLOR convention
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
