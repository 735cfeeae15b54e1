package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/batchimport/internal/models"
)

// colorScheme defines consistent colors for summary counters.
// Green: imported, Red: failed, Yellow: skipped, Cyan: labels.
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

// formatColorizedMetric formats a single metric as "label: value".
func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	return fmt.Sprintf("%s: %s", scheme.label.Sprint(label), scheme.value.Sprintf("%v", value))
}

// formatColorizedCounts formats the run counters on one line.
// Zero counters keep the neutral value color.
// Format: "imported: N, failed: N, skipped: N"
func formatColorizedCounts(summary models.RunSummary) string {
	scheme := newColorScheme()
	parts := make([]string, 0, 3)

	if summary.Imported > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", scheme.success.Sprint("imported"), scheme.value.Sprintf("%d", summary.Imported)))
	} else {
		parts = append(parts, formatColorizedMetric("imported", 0, scheme))
	}

	if summary.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", scheme.fail.Sprint("failed"), scheme.fail.Sprintf("%d", summary.Failed)))
	} else {
		parts = append(parts, formatColorizedMetric("failed", 0, scheme))
	}

	if summary.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", scheme.warn.Sprint("skipped"), scheme.warn.Sprintf("%d", summary.Skipped)))
	} else {
		parts = append(parts, formatColorizedMetric("skipped", 0, scheme))
	}

	return strings.Join(parts, ", ")
}
