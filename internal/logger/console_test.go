package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harrison/batchimport/internal/models"
)

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		want    []string
		notWant []string
	}{
		{level: "trace", want: []string{"[TRACE]", "[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"}},
		{level: "info", want: []string{"[INFO]", "[WARN]", "[ERROR]"}, notWant: []string{"[TRACE]", "[DEBUG]"}},
		{level: "error", want: []string{"[ERROR]"}, notWant: []string{"[INFO]", "[WARN]"}},
		{level: "bogus", want: []string{"[INFO]"}, notWant: []string{"[DEBUG]"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			cl := NewConsoleLogger(&buf, tt.level)

			cl.LogTrace("t")
			cl.LogDebug("d")
			cl.LogInfo("i")
			cl.LogWarn("w")
			cl.LogError("e")

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "trace")
	// Must not panic
	cl.LogInfo("ignored")
	cl.LogOutcome(models.Imported("a.pdf", "a", "Invoice", "A"))
	cl.LogSummary(models.RunSummary{})
	cl.LogProgress(1, 2)
}

func TestConsoleLoggerNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")
	assert.False(t, cl.colorOutput)

	cl.LogInfo("plain")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestConsoleLoggerLogOutcome(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogOutcome(models.Imported("A1-Invoice.pdf", "A1-Invoice", "Invoice", "Invoice"))
	cl.LogOutcome(models.Failed("Z9-Report.pdf", "unknown code", errors.New("no mapping for code \"Z9\"")))

	out := buf.String()
	assert.Contains(t, out, "IMPORTED A1-Invoice.pdf: imported as Invoice \"Invoice\" (A1-Invoice)")
	assert.Contains(t, out, "FAILED Z9-Report.pdf: failed (unknown code)")
}

func TestConsoleLoggerOutcomeFilteredAtError(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "error")

	cl.LogOutcome(models.Imported("a.pdf", "a", "Invoice", "a"))
	cl.LogOutcome(models.Failed("b.pdf", "unknown code", nil))

	assert.Empty(t, buf.String())
}

func TestConsoleLoggerLogSummary(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	summary := models.RunSummary{Duration: 2 * time.Second}
	summary.Add(models.Imported("A1-Invoice.pdf", "A1-Invoice", "Invoice", "Invoice"))
	summary.Add(models.Failed("Z9-Report.pdf", "unknown code", nil))

	cl.LogSummary(summary)

	out := buf.String()
	assert.Contains(t, out, "=== Import Summary ===")
	assert.Contains(t, out, "Imported: 1")
	assert.Contains(t, out, "Failed: 1")
	assert.Contains(t, out, "Duration: 2s")
	assert.Contains(t, out, "- Z9-Report.pdf (unknown code)")
	assert.Contains(t, out, "1 file(s) imported, 1 file(s) not processed")
}

func TestConsoleLoggerLogProgress(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "debug")

	cl.LogProgress(1, 4)
	cl.LogProgress(4, 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Contains(t, lines[0], "1/4 (25%)")
		assert.Contains(t, lines[1], "4/4 (100%)")
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "5s", formatDuration(5*time.Second))
	assert.Equal(t, "2m", formatDuration(2*time.Minute))
	assert.Equal(t, "1m30s", formatDuration(90*time.Second))
	assert.Equal(t, "1h", formatDuration(time.Hour))
	assert.Equal(t, "1h1m1s", formatDuration(time.Hour+time.Minute+time.Second))
}

func TestProgressBarRender(t *testing.T) {
	pb := NewProgressBar(10, 10, false)
	pb.Update(5)
	assert.Equal(t, "[=====     ] 5/10 (50%)", pb.Render())

	pb.Update(20)
	assert.Equal(t, 100, pb.Percentage())

	empty := NewProgressBar(0, 0, false)
	assert.Equal(t, "[          ] 0/0 (0%)", empty.Render())
}

func TestMultiLoggerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiLogger(NewConsoleLogger(&a, "info"), nil, NewConsoleLogger(&b, "info"))

	m.LogInfo("hello")
	m.LogOutcome(models.Skipped("x.pdf", "dry run"))

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, "[INFO] hello")
		assert.Contains(t, out, "SKIPPED x.pdf: skipped (dry run)")
	}
}
