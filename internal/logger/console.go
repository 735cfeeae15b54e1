// Package logger provides the logging implementations injected into the importer.
//
// Every logger writes "[HH:MM:SS] [LEVEL] message" lines filtered by a
// configured level, plus per-file outcome lines and a run summary.
// Implementations are safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/batchimport/internal/models"
)

// ConsoleLogger logs import progress to a writer with timestamps and thread safety.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	progress    *ProgressBar
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// NO_COLOR (via color.NoColor) always disables colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if f != os.Stdout && f != os.Stderr {
		return false
	}
	return !color.NoColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return levelEnabled(cl.logLevel, messageLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogOutcome logs the result of one file.
// Imported and skipped files are logged at INFO, failures at WARN.
func (cl *ConsoleLogger) LogOutcome(outcome models.ImportOutcome) {
	if cl.writer == nil {
		return
	}

	level := "info"
	if outcome.Status == models.OutcomeFailed {
		level = "warn"
	}
	if !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	status := string(outcome.Status)
	if cl.colorOutput {
		status = colorStatus(outcome.Status)
	}
	message := fmt.Sprintf("[%s] %s %s\n", timestamp(), status, outcome.String())

	cl.writer.Write([]byte(message))
}

func colorStatus(status models.OutcomeStatus) string {
	switch status {
	case models.OutcomeImported:
		return color.New(color.FgGreen).Sprint(string(status))
	case models.OutcomeSkipped:
		return color.New(color.FgYellow).Sprint(string(status))
	case models.OutcomeFailed:
		return color.New(color.FgRed).Sprint(string(status))
	default:
		return string(status)
	}
}

// LogProgress renders a progress bar line at DEBUG level.
func (cl *ConsoleLogger) LogProgress(current, total int) {
	if cl.writer == nil || total == 0 {
		return
	}
	if !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	if cl.progress == nil || cl.progress.Total() != total {
		cl.progress = NewProgressBar(total, 20, cl.colorOutput)
		cl.progress.SetPrefix("Progress: ")
	}
	cl.progress.Update(current)

	cl.writer.Write([]byte(fmt.Sprintf("[%s] %s\n", timestamp(), cl.progress.Render())))
}

// LogSummary logs the run summary at INFO level.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var output string

	header := "=== Import Summary ==="
	if summary.DryRun {
		header = "=== Import Plan (dry run) ==="
	}

	if cl.colorOutput {
		output = fmt.Sprintf("[%s] %s\n", ts, color.New(color.Bold).Sprint(header))
		output += fmt.Sprintf("[%s] %s\n", ts, formatColorizedCounts(summary))
	} else {
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] Imported: %d\n", ts, summary.Imported)
		output += fmt.Sprintf("[%s] Failed: %d\n", ts, summary.Failed)
		output += fmt.Sprintf("[%s] Skipped: %d\n", ts, summary.Skipped)
	}
	output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(summary.Duration))

	failed := summary.FailedOutcomes()
	if len(failed) > 0 {
		label := "Not processed:"
		if cl.colorOutput {
			label = color.New(color.FgRed).Sprint(label)
		}
		output += fmt.Sprintf("[%s] %s\n", ts, label)
		for _, o := range failed {
			output += fmt.Sprintf("[%s]   - %s (%s)\n", ts, o.Path, o.Reason)
		}
	}
	output += fmt.Sprintf("[%s] %s\n", ts, summary.String())

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders a duration as compact "1h2m3s" text.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                 {}
func (n *NoOpLogger) LogDebug(string)                 {}
func (n *NoOpLogger) LogInfo(string)                  {}
func (n *NoOpLogger) LogWarn(string)                  {}
func (n *NoOpLogger) LogError(string)                 {}
func (n *NoOpLogger) LogOutcome(models.ImportOutcome) {}
func (n *NoOpLogger) LogProgress(int, int)            {}
func (n *NoOpLogger) LogSummary(models.RunSummary)    {}
