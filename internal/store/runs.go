package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/models"
)

// RecordRun persists a finished run and its failed outcomes, returning the run id
func (s *Store) RecordRun(ctx context.Context, summary models.RunSummary) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin record run: %w", err)
	}
	defer tx.Rollback()

	finished := summary.StartedAt.Add(summary.Duration)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO import_runs (source_root, started_at, finished_at, imported, failed, skipped)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		summary.SourceRoot, formatTime(summary.StartedAt), formatTime(finished),
		summary.Imported, summary.Failed, summary.Skipped)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, o := range summary.FailedOutcomes() {
		var message sql.NullString
		if o.Err != nil {
			message = sql.NullString{String: o.Err.Error(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_failures (run_id, path, reason, message) VALUES (?, ?, ?, ?)`,
			runID, o.Path, o.Reason, message); err != nil {
			return 0, fmt.Errorf("insert run failure %s: %w", o.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
// Failures are not loaded; use GetRun for those.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	query := `SELECT id, source_root, started_at, finished_at, imported, failed, skipped
		FROM import_runs ORDER BY started_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its failures
func (s *Store) GetRun(ctx context.Context, id int64) (models.RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_root, started_at, finished_at, imported, failed, skipped
		 FROM import_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RunRecord{}, berrors.NewNotFoundError("run", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return models.RunRecord{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, reason, COALESCE(message, '') FROM run_failures WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return models.RunRecord{}, fmt.Errorf("query run failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path, reason, message string
		if err := rows.Scan(&path, &reason, &message); err != nil {
			return models.RunRecord{}, fmt.Errorf("scan run failure: %w", err)
		}
		var cause error
		if message != "" {
			cause = errors.New(message)
		}
		run.Failures = append(run.Failures, models.Failed(path, reason, cause))
	}
	return run, rows.Err()
}

func scanRun(row rowScanner) (models.RunRecord, error) {
	var (
		r                 models.RunRecord
		started, finished string
	)
	if err := row.Scan(&r.ID, &r.SourceRoot, &started, &finished, &r.Imported, &r.Failed, &r.Skipped); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RunRecord{}, err
		}
		return models.RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	r.StartedAt = parseTime(started)
	r.FinishedAt = parseTime(finished)
	return r, nil
}
