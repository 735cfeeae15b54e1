package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/filelock"
	"github.com/harrison/batchimport/internal/fileutil"
	"github.com/harrison/batchimport/internal/models"
)

// Reconciler imports every pending file of a source tree into a repository.
type Reconciler struct {
	repo   Repository
	logger Logger
	now    func() time.Time
}

// NewReconciler creates a reconciler writing into repo.
// A nil logger discards all output.
func NewReconciler(repo Repository, logger Logger) *Reconciler {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Reconciler{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Run performs one full reconciliation: validate, plan, then execute.
//
// The returned error is non-nil only for run-level problems (invalid
// settings, a concurrent run, an unreadable source tree); in that case
// nothing was changed. Per-file failures are reported in the summary.
func (r *Reconciler) Run(ctx context.Context, settings models.ImportSettings) (models.RunSummary, error) {
	started := r.now()

	if err := ValidateSettings(settings); err != nil {
		return models.RunSummary{}, err
	}

	if !settings.DryRun {
		lock, err := filelock.AcquireRunLock(settings.SourceRoot)
		if err != nil {
			if errors.Is(err, filelock.ErrLocked) {
				return models.RunSummary{}, berrors.NewConfigurationError("source_root", settings.SourceRoot,
					"run already in progress", err)
			}
			return models.RunSummary{}, berrors.NewConfigurationError("source_root", settings.SourceRoot,
				"cannot acquire run lock", err)
		}
		r.logger.LogDebug(fmt.Sprintf("Holding run lock %s", lock.Path()))
		defer func() {
			if err := lock.Unlock(); err != nil {
				r.logger.LogWarn(err.Error())
			}
		}()
	}

	r.logger.LogInfo(fmt.Sprintf("Scanning %s", settings.SourceRoot))
	plan, err := r.Plan(ctx, settings)
	if err != nil {
		return models.RunSummary{}, err
	}
	r.logger.LogInfo(fmt.Sprintf("Found %d file(s), %d ready for import", len(plan.Entries), plan.Ready()))

	summary := r.Execute(ctx, plan)
	summary.StartedAt = started
	summary.Duration = r.now().Sub(started)

	r.logger.LogSummary(summary)
	return summary, nil
}

// Execute carries out a plan. Entries that failed planning are reported
// as failed, every other entry is imported unless the plan is a dry run.
// Execute never aborts early: each entry ends with exactly one outcome.
func (r *Reconciler) Execute(ctx context.Context, plan *Plan) models.RunSummary {
	summary := models.RunSummary{
		SourceRoot: plan.Settings.SourceRoot,
		DryRun:     plan.Settings.DryRun,
	}

	total := len(plan.Entries)
	for i, entry := range plan.Entries {
		var outcome models.ImportOutcome
		switch {
		case !entry.OK():
			outcome = models.Failed(entry.Path(), berrors.ReasonOf(entry.Err), entry.Err)
		case plan.Settings.DryRun:
			outcome = models.Skipped(entry.Path(), "dry run")
			outcome.DocumentID = entry.DocumentID
			outcome.TypeName = entry.TypeName
			outcome.Title = entry.Title
		default:
			outcome = r.importOne(ctx, entry)
		}

		summary.Add(outcome)
		r.logger.LogOutcome(outcome)
		r.logger.LogProgress(i+1, total)
	}

	return summary
}

// importOne creates the document, attaches the data file and moves the
// files into the processed tree. A failed attachment deletes the document
// again; a failed move keeps it and leaves the remaining files in place.
func (r *Reconciler) importOne(ctx context.Context, entry PlannedImport) models.ImportOutcome {
	path := entry.Path()

	content, err := os.ReadFile(entry.File.AbsolutePath)
	if err != nil {
		return models.Failed(path, "read failed", err)
	}

	doc, err := r.repo.CreateDocument(ctx, entry.Container, models.DocumentRequest{
		ID:       entry.DocumentID,
		TypeName: entry.TypeName,
		Title:    entry.Title,
		Fields:   entry.Fields,
	})
	if err != nil {
		return models.Failed(path, berrors.ReasonOf(err), err)
	}
	r.logger.LogTrace(fmt.Sprintf("%s: created %s %s in %q", path, entry.TypeName, doc.UID, entry.Container.Path))

	_, err = r.repo.AttachFile(ctx, doc, models.FileUpload{
		Filename: entry.File.BaseName,
		Content:  content,
	})
	if err != nil {
		attachErr := &berrors.AttachmentError{DocumentID: entry.DocumentID, Filename: entry.File.BaseName, Err: err}
		if delErr := r.repo.DeleteDocument(ctx, doc); delErr != nil {
			attachErr.CleanupErr = delErr
			r.logger.LogError(fmt.Sprintf("%s: document %s left without attachment: %v", path, doc.UID, delErr))
		}
		return models.Failed(path, attachErr.Reason(), attachErr)
	}

	if err := fileutil.MoveFile(entry.File.AbsolutePath, entry.DataDest); err != nil {
		moveErr := &berrors.MoveError{Source: entry.File.AbsolutePath, Destination: entry.DataDest, Err: err}
		return models.Failed(path, moveErr.Reason(), moveErr)
	}
	if entry.File.HasSidecar() {
		if err := fileutil.MoveFile(entry.File.SidecarPath, entry.SidecarDest); err != nil {
			moveErr := &berrors.MoveError{Source: entry.File.SidecarPath, Destination: entry.SidecarDest, Err: err}
			return models.Failed(path, moveErr.Reason(), moveErr)
		}
	}

	return models.Imported(path, entry.DocumentID, entry.TypeName, entry.Title)
}

type nopLogger struct{}

func (nopLogger) LogTrace(string)                 {}
func (nopLogger) LogDebug(string)                 {}
func (nopLogger) LogInfo(string)                  {}
func (nopLogger) LogWarn(string)                  {}
func (nopLogger) LogError(string)                 {}
func (nopLogger) LogOutcome(models.ImportOutcome) {}
func (nopLogger) LogProgress(int, int)            {}
func (nopLogger) LogSummary(models.RunSummary)    {}
