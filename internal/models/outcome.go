package models

import (
	"fmt"
	"time"
)

// OutcomeStatus is the final state of one pending file.
type OutcomeStatus string

// Outcome status constants
const (
	OutcomeImported OutcomeStatus = "IMPORTED" // Document created and files moved
	OutcomeSkipped  OutcomeStatus = "SKIPPED"  // Intentionally not processed (e.g. dry run)
	OutcomeFailed   OutcomeStatus = "FAILED"   // Left in place because of a per-file error
)

// ImportOutcome records what happened to one pending file.
type ImportOutcome struct {
	Path       string        // Path relative to the source root
	Status     OutcomeStatus // IMPORTED, SKIPPED or FAILED
	Reason     string        // Short reason for SKIPPED and FAILED outcomes
	Err        error         // Underlying error for FAILED outcomes
	DocumentID string        // Identifier of the created document
	TypeName   string        // Document type resolved from the filename code
	Title      string        // Title the document was (or would be) created with
}

// Imported builds a successful outcome.
func Imported(path, documentID, typeName, title string) ImportOutcome {
	return ImportOutcome{Path: path, Status: OutcomeImported, DocumentID: documentID, TypeName: typeName, Title: title}
}

// Skipped builds a skipped outcome.
func Skipped(path, reason string) ImportOutcome {
	return ImportOutcome{Path: path, Status: OutcomeSkipped, Reason: reason}
}

// Failed builds a failed outcome.
func Failed(path, reason string, err error) ImportOutcome {
	return ImportOutcome{Path: path, Status: OutcomeFailed, Reason: reason, Err: err}
}

// String renders the outcome as a single log line.
func (o ImportOutcome) String() string {
	switch o.Status {
	case OutcomeImported:
		return fmt.Sprintf("%s: imported as %s %q (%s)", o.Path, o.TypeName, o.Title, o.DocumentID)
	case OutcomeSkipped:
		return fmt.Sprintf("%s: skipped (%s)", o.Path, o.Reason)
	default:
		if o.Err != nil {
			return fmt.Sprintf("%s: failed (%s): %v", o.Path, o.Reason, o.Err)
		}
		return fmt.Sprintf("%s: failed (%s)", o.Path, o.Reason)
	}
}

// RunSummary is the aggregate result of one reconciliation run.
type RunSummary struct {
	RunID      int64           // History record id, zero when not recorded
	SourceRoot string          // Source root the run scanned
	DryRun     bool            // Whether the run only planned
	Imported   int             // Number of imported files
	Failed     int             // Number of files left in place because of errors
	Skipped    int             // Number of files intentionally not processed
	StartedAt  time.Time       // Run start
	Duration   time.Duration   // Total run time
	Outcomes   []ImportOutcome // Per-file outcomes in processing order
}

// Add records an outcome and updates the counters.
func (s *RunSummary) Add(o ImportOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case OutcomeImported:
		s.Imported++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// FailedOutcomes returns the failed outcomes in processing order.
func (s RunSummary) FailedOutcomes() []ImportOutcome {
	var failed []ImportOutcome
	for _, o := range s.Outcomes {
		if o.Status == OutcomeFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// String returns the human-readable run summary.
func (s RunSummary) String() string {
	if s.DryRun {
		return fmt.Sprintf("%d file(s) planned for import, %d file(s) not processed", s.Skipped, s.Failed)
	}
	return fmt.Sprintf("%d file(s) imported, %d file(s) not processed", s.Imported, s.Failed)
}
