package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/diffnorris/pkg/models"
)

// WriteReportFile writes the diff report to a file
// Format can be "human" or "json"; file output is never colored
func WriteReportFile(report *models.DiffReport, path string, format string) error {
	renderer, err := NewRenderer(format, RenderOptions{})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := renderer.Render(file, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
