package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/diffnorris/pkg/models"
)

// JSONRenderer renders the diff report as JSON for automation and
// scripting. Quiet mode does not apply; consumers get the full report
type JSONRenderer struct{}

// JSONReportData is the top-level JSON document
type JSONReportData struct {
	OperationID    string            `json:"operation_id"`
	Source         string            `json:"source"`
	Target         string            `json:"target"`
	Depth          int               `json:"depth,omitempty"`
	CompareContent bool              `json:"compare_content"`
	Method         string            `json:"method,omitempty"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Duration       string            `json:"duration"`
	DurationMs     int64             `json:"duration_ms"`
	Status         string            `json:"status"`
	Summary        JSONSummaryData   `json:"summary"`
	Entries        []JSONEntryData   `json:"entries"`
	Skipped        []JSONSkippedData `json:"skipped,omitempty"`
}

// JSONEntryData represents one classified path
type JSONEntryData struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// JSONSummaryData represents the aggregate counts
type JSONSummaryData struct {
	Removed       int `json:"removed"`
	Added         int `json:"added"`
	Common        int `json:"common"`
	Unchanged     int `json:"unchanged"`
	Changed       int `json:"changed"`
	CompareFailed int `json:"compare_failed"`
}

// JSONSkippedData represents an entry skipped during listing
type JSONSkippedData struct {
	Tree  string `json:"tree"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewJSONRenderer creates a new JSON renderer
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render writes the report as an indented JSON document
func (r *JSONRenderer) Render(w io.Writer, report *models.DiffReport) error {
	doc := JSONReportData{
		OperationID:    report.OperationID,
		Source:         report.SourceRoot,
		Target:         report.TargetRoot,
		Depth:          report.Depth,
		CompareContent: report.CompareContent,
		StartTime:      report.StartTime,
		EndTime:        report.EndTime,
		Duration:       report.Duration.String(),
		DurationMs:     report.Duration.Milliseconds(),
		Status:         string(report.Status),
		Summary:        summaryData(report.Result.Summary),
		Entries:        entriesData(report.Result.Entries),
	}

	if report.CompareContent {
		doc.Method = string(report.Method)
	}

	for _, s := range report.SourceSkipped {
		doc.Skipped = append(doc.Skipped, JSONSkippedData{
			Tree:  "source",
			Path:  s.Path,
			Error: s.Err.Error(),
		})
	}
	for _, s := range report.TargetSkipped {
		doc.Skipped = append(doc.Skipped, JSONSkippedData{
			Tree:  "target",
			Path:  s.Path,
			Error: s.Err.Error(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func summaryData(s models.Summary) JSONSummaryData {
	return JSONSummaryData{
		Removed:       s.Removed,
		Added:         s.Added,
		Common:        s.Common,
		Unchanged:     s.Unchanged,
		Changed:       s.Changed,
		CompareFailed: s.CompareFailed,
	}
}

func entriesData(entries []models.DiffEntry) []JSONEntryData {
	out := make([]JSONEntryData, 0, len(entries))
	for _, e := range entries {
		data := JSONEntryData{
			Path:   e.Path,
			Status: string(e.Status),
			Reason: e.Reason,
		}
		if e.Status == models.DiffCommon {
			data.Content = string(e.Content)
		}
		out = append(out, data)
	}
	return out
}

// Name returns the renderer name
func (r *JSONRenderer) Name() string {
	return "json"
}
