// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/guardgen/internal/ports/secondary"
)

// LedgerRepository implements secondary.LedgerRepository with SQLite.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var _ secondary.LedgerRepository = (*LedgerRepository)(nil)

// CreateRun persists a new run.
func (r *LedgerRepository) CreateRun(ctx context.Context, run *secondary.RunRecord) error {
	status := run.Status
	if status == "" {
		status = "running"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, project_root, framework_version, dialect, dry_run, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProjectRoot, run.FrameworkVersion, run.Dialect, boolToInt(run.DryRun), status,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// FinishRun stamps a run with its final status.
func (r *LedgerRepository) FinishRun(ctx context.Context, runID, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE runs SET status = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	return nil
}

// RecordGuard persists the outcome of one guard.
func (r *LedgerRepository) RecordGuard(ctx context.Context, rec *secondary.GuardRecord) error {
	var errText sql.NullString
	if rec.Error != "" {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO guard_records (run_id, guard, status, files, warnings, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Guard, rec.Status, joinLines(rec.Files), joinLines(rec.Warnings), errText,
	)
	if err != nil {
		return fmt.Errorf("failed to record guard: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get guard record id: %w", err)
	}
	rec.ID = id

	return nil
}

// GetRun retrieves a run by ID.
func (r *LedgerRepository) GetRun(ctx context.Context, runID string) (*secondary.RunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_root, framework_version, dialect, dry_run, status, started_at, finished_at
		 FROM runs WHERE id = ?`,
		runID,
	)

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return record, nil
}

// ListRuns retrieves runs, newest first.
func (r *LedgerRepository) ListRuns(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	query := `SELECT id, project_root, framework_version, dialect, dry_run, status, started_at, finished_at
		FROM runs WHERE 1=1`
	args := []any{}

	if filters.ProjectRoot != "" {
		query += " AND project_root = ?"
		args = append(args, filters.ProjectRoot)
	}

	query += " ORDER BY started_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

// ListGuards retrieves the guard outcomes of a run in processing order.
func (r *LedgerRepository) ListGuards(ctx context.Context, runID string) ([]*secondary.GuardRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, guard, status, files, warnings, error, created_at
		 FROM guard_records WHERE run_id = ? ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list guards: %w", err)
	}
	defer rows.Close()

	var records []*secondary.GuardRecord
	for rows.Next() {
		var (
			files     sql.NullString
			warnings  sql.NullString
			errText   sql.NullString
			createdAt time.Time
		)

		record := &secondary.GuardRecord{}
		err := rows.Scan(&record.ID, &record.RunID, &record.Guard, &record.Status, &files, &warnings, &errText, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guard record: %w", err)
		}

		record.Files = splitLines(files.String)
		record.Warnings = splitLines(warnings.String)
		record.Error = errText.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		records = append(records, record)
	}

	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*secondary.RunRecord, error) {
	var (
		dryRun     int
		startedAt  time.Time
		finishedAt sql.NullTime
	)

	record := &secondary.RunRecord{}
	err := row.Scan(&record.ID, &record.ProjectRoot, &record.FrameworkVersion, &record.Dialect,
		&dryRun, &record.Status, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	record.DryRun = dryRun != 0
	record.StartedAt = startedAt.Format(time.RFC3339)
	if finishedAt.Valid {
		record.FinishedAt = finishedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// joinLines stores a list as newline-separated text; nil stays NULL.
func joinLines(items []string) sql.NullString {
	if len(items) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(items, "\n"), Valid: true}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
