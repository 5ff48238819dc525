package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
)

var runColumns = []string{
	"id", "status", "target_kind", "candidates", "existing", "worklist",
	"processed", "succeeded", "failed", "error", "started_at", "finished_at",
}

// RunRepository persists sync run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Start records a new run in the running state. An empty ID is generated.
func (r *RunRepository) Start(run *models.SyncRun) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.Status == "" {
		run.Status = models.RunRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err := sq.Insert("runs").
		Columns(runColumns[:len(runColumns)-1]...).
		Values(
			run.ID, run.Status, run.TargetKind, run.Candidates, run.Existing, run.Worklist,
			run.Processed, run.Succeeded, run.Failed, run.Error, run.StartedAt,
		).
		RunWith(r.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Complete stores the report of a finished run and its failed words.
// An interrupted report marks the run failed.
func (r *RunRepository) Complete(id string, report *models.RunReport) error {
	status, message := models.RunCompleted, ""
	if report.Canceled {
		status, message = models.RunFailed, "interrupted"
	}
	return r.finish(id, status, message, report)
}

// Fail marks a run failed with cause. report may be nil when the run never started processing.
func (r *RunRepository) Fail(id string, cause error, report *models.RunReport) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return r.finish(id, models.RunFailed, message, report)
}

func (r *RunRepository) finish(id, status, message string, report *models.RunReport) error {
	if report == nil {
		report = &models.RunReport{}
	}
	finishedAt := report.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := sq.Update("runs").
		SetMap(sq.Eq{
			"status":      status,
			"candidates":  report.Candidates,
			"existing":    report.Existing,
			"worklist":    report.Worklist,
			"processed":   report.Processed,
			"succeeded":   report.Succeeded,
			"failed":      report.Failed,
			"error":       message,
			"finished_at": finishedAt,
		}).
		Where(sq.Eq{"id": id}).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	if len(report.Failures) > 0 {
		insert := sq.Insert("run_failures").Columns("run_id", "position", "word", "reason", "detail")
		for _, f := range report.Failures {
			insert = insert.Values(id, f.Position, f.Word, f.Reason, f.Detail)
		}
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert failed words: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Get retrieves a run and its failed words by ID or unique ID prefix. Only uuid characters are accepted.
func (r *RunRepository) Get(idOrPrefix string) (*models.SyncRun, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}
	if strings.Trim(idOrPrefix, "0123456789abcdefABCDEF-") != "" {
		return nil, fmt.Errorf("%w: run id %q may only contain hex digits and dashes", shared.ErrInvalidArgument, idOrPrefix)
	}

	rows, err := sq.Select(runColumns...).
		From("runs").
		Where(sq.Or{sq.Eq{"id": idOrPrefix}, sq.Like{"id": idOrPrefix + "%"}}).
		OrderByClause("id = ? DESC", idOrPrefix).
		Limit(2).
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, idOrPrefix)
	case len(runs) > 1 && runs[0].ID != idOrPrefix:
		return nil, fmt.Errorf("%w: run id prefix %q is ambiguous", shared.ErrInvalidArgument, idOrPrefix)
	}

	run := runs[0]
	run.Failures, err = r.Failures(run.ID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List retrieves the most recent runs, newest first. A non-positive limit returns every run.
func (r *RunRepository) List(limit int) ([]*models.SyncRun, error) {
	query := sq.Select(runColumns...).From("runs").OrderBy("started_at DESC", "rowid DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Failures returns the failed words of a run in worklist order.
func (r *RunRepository) Failures(id string) ([]models.FailedWord, error) {
	rows, err := sq.Select("position", "word", "reason", "detail").
		From("run_failures").
		Where(sq.Eq{"run_id": id}).
		OrderBy("position", "id").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query failed words: %w", err)
	}
	defer rows.Close()

	failures := []models.FailedWord{}
	for rows.Next() {
		var f models.FailedWord
		if err := rows.Scan(&f.Position, &f.Word, &f.Reason, &f.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan failed word: %w", err)
		}
		failures = append(failures, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return failures, nil
}

// scanRow scans a row from [sql.Rows] into a [models.SyncRun]
func (r *RunRepository) scanRow(rows *sql.Rows) (*models.SyncRun, error) {
	var (
		run        models.SyncRun
		finishedAt sql.NullTime
	)

	err := rows.Scan(
		&run.ID, &run.Status, &run.TargetKind, &run.Candidates, &run.Existing, &run.Worklist,
		&run.Processed, &run.Succeeded, &run.Failed, &run.Error, &run.StartedAt, &finishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}
