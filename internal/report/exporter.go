package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/batchimport/internal/models"
)

// Exporter renders a report in one format.
type Exporter interface {
	Export(r *Report) (string, error)
}

// MarkdownExporter renders a summary table followed by per-file outcomes.
type MarkdownExporter struct{}

// Export converts the report to Markdown
func (me *MarkdownExporter) Export(r *Report) (string, error) {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("# Import Plan (dry run)\n\n")
	} else if r.RunID > 0 {
		sb.WriteString(fmt.Sprintf("# Import Run %d\n\n", r.RunID))
	} else {
		sb.WriteString("# Import Run\n\n")
	}

	sb.WriteString(fmt.Sprintf("**Source**: `%s`  \n", r.SourceRoot))
	if !r.StartedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Started**: %s  \n", r.StartedAt.Format("2006-01-02 15:04:05")))
	}
	sb.WriteString(fmt.Sprintf("**Duration**: %s\n\n", r.Duration.Round(time.Millisecond)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Imported | Failed | Skipped |\n")
	sb.WriteString("|----------|--------|---------|\n")
	sb.WriteString(fmt.Sprintf("| %d | %d | %d |\n\n", r.Imported, r.Failed, r.Skipped))
	sb.WriteString(r.Summary() + "\n\n")

	if len(r.Outcomes) > 0 {
		sb.WriteString("## Files\n\n")
		sb.WriteString("| File | Status | Type | Title | Reason |\n")
		sb.WriteString("|------|--------|------|-------|--------|\n")
		for _, o := range r.Outcomes {
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %s |\n",
				escapeCell(o.Path),
				o.Status,
				escapeCell(o.TypeName),
				escapeCell(o.Title),
				escapeCell(outcomeReason(o))))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func outcomeReason(o models.ImportOutcome) string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Reason, o.Err)
	}
	return o.Reason
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// HTMLExporter renders the Markdown report to a standalone HTML page.
type HTMLExporter struct {
	markdown goldmark.Markdown
}

// NewHTMLExporter creates an exporter with table support enabled.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Export converts the report to HTML
func (he *HTMLExporter) Export(r *Report) (string, error) {
	md, err := (&MarkdownExporter{}).Export(r)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := he.markdown.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(r.Summary())))
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}

// JSONExporter renders the report as JSON
type JSONExporter struct {
	Pretty bool // Enable pretty printing with indentation
}

type jsonOutcome struct {
	Path       string `json:"path"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	TypeName   string `json:"type,omitempty"`
	Title      string `json:"title,omitempty"`
}

type jsonReport struct {
	RunID      int64         `json:"run_id,omitempty"`
	SourceRoot string        `json:"source_root"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	DurationMS int64         `json:"duration_ms"`
	Imported   int           `json:"imported"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Summary    string        `json:"summary"`
	Outcomes   []jsonOutcome `json:"outcomes"`
}

// Export converts the report to JSON
func (je *JSONExporter) Export(r *Report) (string, error) {
	out := jsonReport{
		RunID:      r.RunID,
		SourceRoot: r.SourceRoot,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		DurationMS: r.Duration.Milliseconds(),
		Imported:   r.Imported,
		Failed:     r.Failed,
		Skipped:    r.Skipped,
		Summary:    r.Summary(),
		Outcomes:   make([]jsonOutcome, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		jo := jsonOutcome{
			Path:       o.Path,
			Status:     string(o.Status),
			Reason:     o.Reason,
			DocumentID: o.DocumentID,
			TypeName:   o.TypeName,
			Title:      o.Title,
		}
		if o.Err != nil {
			jo.Error = o.Err.Error()
		}
		out.Outcomes = append(out.Outcomes, jo)
	}

	var data []byte
	var err error
	if je.Pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// CSVExporter renders one row per file outcome
type CSVExporter struct{}

// Export converts the report to CSV
func (ce *CSVExporter) Export(r *Report) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{{"path", "status", "type", "title", "document_id", "reason"}}
	for _, o := range r.Outcomes {
		rows = append(rows, []string{o.Path, string(o.Status), o.TypeName, o.Title, o.DocumentID, outcomeReason(o)})
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.String(), nil
}
