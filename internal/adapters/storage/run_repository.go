package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
)

const runColumns = `id, block_id, block_title, mode, status, completed_intervals, total_intervals,
	elapsed_seconds, planned_seconds, started_at, finished_at`

// runRepository implements ports.RunRepository using SQLite.
type runRepository struct {
	db *sql.DB
}

// newRunRepository creates a new run repository.
func newRunRepository(db *sql.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Save persists a run to storage.
func (r *runRepository) Save(ctx context.Context, run *domain.WorkoutRun) error {
	query := `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.BlockID,
		run.BlockTitle,
		string(run.Mode),
		string(run.Status),
		run.CompletedIntervals,
		run.TotalIntervals,
		run.ElapsedSeconds,
		run.PlannedSeconds,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// FindByID retrieves a run by its unique identifier.
func (r *runRepository) FindByID(ctx context.Context, id string) (*domain.WorkoutRun, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}

	return run, nil
}

// FindRecent retrieves runs started since the given time, newest first.
func (r *runRepository) FindRecent(ctx context.Context, since time.Time, limit int) ([]*domain.WorkoutRun, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + runColumns + ` FROM runs WHERE started_at >= ? ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

// FindByBlock retrieves all runs of a block, newest first.
func (r *runRepository) FindByBlock(ctx context.Context, blockID string) ([]*domain.WorkoutRun, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE block_id = ? ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, query, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to query block runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

// GetDailyStats returns aggregated statistics for a specific date.
func (r *runRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.WorkoutStats, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(completed_intervals), 0),
			COALESCE(SUM(elapsed_seconds), 0)
		FROM runs
		WHERE started_at >= ? AND started_at < ?
	`

	stats := &domain.WorkoutStats{Date: startOfDay}
	var seconds int64

	err := r.db.QueryRowContext(ctx, query, string(domain.RunCompleted), startOfDay, endOfDay).Scan(
		&stats.Runs,
		&stats.CompletedRuns,
		&stats.Intervals,
		&seconds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	stats.TotalTime = time.Duration(seconds) * time.Second
	return stats, nil
}

func scanRuns(rows *sql.Rows) ([]*domain.WorkoutRun, error) {
	var runs []*domain.WorkoutRun

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanRun(row rowScanner) (*domain.WorkoutRun, error) {
	var run domain.WorkoutRun
	var blockID, blockTitle sql.NullString

	err := row.Scan(
		&run.ID,
		&blockID,
		&blockTitle,
		&run.Mode,
		&run.Status,
		&run.CompletedIntervals,
		&run.TotalIntervals,
		&run.ElapsedSeconds,
		&run.PlannedSeconds,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if blockID.Valid {
		run.BlockID = &blockID.String
	}
	run.BlockTitle = blockTitle.String

	return &run, nil
}
