package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/harrison/batchimport/internal/models"
)

// FileLogger logs import runs to files in the configured log directory.
// It creates a timestamped log per run, one detail file per failed input
// under failures/, and keeps a latest.log symlink pointing to the most recent run.
type FileLogger struct {
	logDir      string
	runLog      *os.File
	runFile     string
	failuresDir string
	logLevel    string
	mu          sync.Mutex
}

// NewFileLogger creates a FileLogger writing to logDir at the given level.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	failuresDir := filepath.Join(logDir, "failures")
	if err := os.MkdirAll(failuresDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create failures directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log, suffixed when two runs start in the same second
	stamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", stamp))
	for i := 1; fileExists(runFile); i++ {
		runFile = filepath.Join(logDir, fmt.Sprintf("run-%s-%d.log", stamp, i))
	}

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:      logDir,
		runLog:      file,
		runFile:     runFile,
		failuresDir: failuresDir,
		logLevel:    normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== Batch Import Run Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// RunFile returns the path of the current run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return levelEnabled(fl.logLevel, messageLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogOutcome writes the outcome line to the run log.
// Failed outcomes additionally get a detail file under failures/.
func (fl *FileLogger) LogOutcome(outcome models.ImportOutcome) {
	level := "info"
	if outcome.Status == models.OutcomeFailed {
		level = "warn"
	}
	if fl.shouldLog(level) {
		fl.writeRunLog(fmt.Sprintf("[%s] %s %s\n", timestamp(), outcome.Status, outcome.String()))
	}

	if outcome.Status == models.OutcomeFailed {
		if err := fl.writeFailureDetail(outcome); err != nil {
			fl.writeRunLog(fmt.Sprintf("[%s] [ERROR] %v\n", timestamp(), err))
		}
	}
}

var unsafeLogName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (fl *FileLogger) writeFailureDetail(outcome models.ImportOutcome) error {
	name := unsafeLogName.ReplaceAllString(outcome.Path, "_") + ".log"
	path := filepath.Join(fl.failuresDir, name)

	content := fmt.Sprintf("=== %s ===\n", outcome.Path)
	content += fmt.Sprintf("Status: %s\n", outcome.Status)
	content += fmt.Sprintf("Reason: %s\n", outcome.Reason)
	if outcome.TypeName != "" {
		content += fmt.Sprintf("Type: %s\n", outcome.TypeName)
	}
	if outcome.Err != nil {
		content += fmt.Sprintf("\nError:\n%v\n", outcome.Err)
	}
	content += fmt.Sprintf("\nRecorded at: %s\n", time.Now().Format(time.RFC3339))

	fl.mu.Lock()
	defer fl.mu.Unlock()

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write failure log: %w", err)
	}
	return nil
}

// LogProgress is a no-op: progress bars are console-only.
func (fl *FileLogger) LogProgress(current, total int) {}

// LogSummary logs the run summary with final statistics at INFO level.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()

	status := "SUCCESS"
	if summary.Failed > 0 {
		if summary.Imported == 0 {
			status = "FAILED"
		} else {
			status = "PARTIAL"
		}
	}
	if summary.DryRun {
		status = "DRY RUN"
	}

	message := fmt.Sprintf(
		"\n[%s] === IMPORT SUMMARY ===\n"+
			"[%s] Source root:  %s\n"+
			"[%s] Imported:     %d\n"+
			"[%s] Failed:       %d\n"+
			"[%s] Skipped:      %d\n"+
			"[%s] Total time:   %.1fs\n"+
			"[%s] Status:       %s\n"+
			"[%s] Completed at: %s\n",
		ts,
		ts, summary.SourceRoot,
		ts, summary.Imported,
		ts, summary.Failed,
		ts, summary.Skipped,
		ts, summary.Duration.Seconds(),
		ts, status,
		ts, time.Now().Format(time.RFC3339),
	)

	fl.writeRunLog(message)
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
