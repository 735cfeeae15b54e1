// Package report renders run summaries as Markdown, HTML, JSON or CSV
// and writes them next to each other in a report directory.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/batchimport/internal/filelock"
	"github.com/harrison/batchimport/internal/models"
)

// Report is the renderable view of one run.
type Report struct {
	RunID      int64
	SourceRoot string
	DryRun     bool
	StartedAt  time.Time
	Duration   time.Duration
	Imported   int
	Failed     int
	Skipped    int
	Outcomes   []models.ImportOutcome
}

// FromSummary builds a report from a finished run.
func FromSummary(s models.RunSummary) *Report {
	return &Report{
		RunID:      s.RunID,
		SourceRoot: s.SourceRoot,
		DryRun:     s.DryRun,
		StartedAt:  s.StartedAt,
		Duration:   s.Duration,
		Imported:   s.Imported,
		Failed:     s.Failed,
		Skipped:    s.Skipped,
		Outcomes:   s.Outcomes,
	}
}

// FromRecord builds a report from run history. Only failed outcomes are
// kept in history, so the report lists failures only.
func FromRecord(r models.RunRecord) *Report {
	return &Report{
		RunID:      r.ID,
		SourceRoot: r.SourceRoot,
		StartedAt:  r.StartedAt,
		Duration:   r.FinishedAt.Sub(r.StartedAt),
		Imported:   r.Imported,
		Failed:     r.Failed,
		Skipped:    r.Skipped,
		Outcomes:   r.Failures,
	}
}

// Summary returns the one-line result, matching RunSummary.String.
func (r *Report) Summary() string {
	return models.RunSummary{DryRun: r.DryRun, Imported: r.Imported, Failed: r.Failed, Skipped: r.Skipped}.String()
}

// BaseName returns the file name, without extension, reports of r are written under.
func (r *Report) BaseName() string {
	if r.RunID > 0 {
		return fmt.Sprintf("run-%d", r.RunID)
	}
	name := "run-" + r.StartedAt.UTC().Format("20060102-150405")
	if r.DryRun {
		name += "-dryrun"
	}
	return name
}

// WriteFiles renders r in every requested format and writes each file
// atomically into dir. It returns the written paths in format order.
func WriteFiles(r *Report, dir string, formats ...string) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}
	if dir == "" {
		return nil, fmt.Errorf("report directory cannot be empty")
	}
	if len(formats) == 0 {
		formats = []string{FormatMarkdown, FormatHTML}
	}

	var written []string
	for _, format := range formats {
		exporter, ext, err := exporterFor(format)
		if err != nil {
			return written, err
		}
		content, err := exporter.Export(r)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", format, err)
		}
		path := filepath.Join(dir, r.BaseName()+ext)
		if err := filelock.AtomicWrite(path, []byte(content)); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// ExportToString renders r in a single format.
func ExportToString(r *Report, format string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report cannot be nil")
	}
	exporter, _, err := exporterFor(format)
	if err != nil {
		return "", err
	}
	return exporter.Export(r)
}

// Supported formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatCSV      = "csv"
)

// ParseFormat validates and normalizes a format name.
func ParseFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "md" {
		format = FormatMarkdown
	}
	switch format {
	case FormatMarkdown, FormatHTML, FormatJSON, FormatCSV:
		return format, nil
	}
	return "", fmt.Errorf("invalid format '%s': must be one of: markdown (or md), html, json, csv", format)
}

func exporterFor(format string) (Exporter, string, error) {
	normalized, err := ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	switch normalized {
	case FormatHTML:
		return NewHTMLExporter(), ".html", nil
	case FormatJSON:
		return &JSONExporter{Pretty: true}, ".json", nil
	case FormatCSV:
		return &CSVExporter{}, ".csv", nil
	default:
		return &MarkdownExporter{}, ".md", nil
	}
}
