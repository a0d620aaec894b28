package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"contentradar/internal/models"
)

// runColumns is the standard column list for pipeline run queries.
const runColumns = `id, topic_id, job_id, status, detail, started_at, finished_at`

// scanRun scans a row into a PipelineRun struct.
func scanRun(row pgx.Row) (*models.PipelineRun, error) {
	var run models.PipelineRun
	err := row.Scan(
		&run.ID,
		&run.TopicID,
		&run.JobID,
		&run.Status,
		&run.Detail,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// scanRuns scans multiple rows into a slice of PipelineRuns.
func scanRuns(rows pgx.Rows) ([]models.PipelineRun, error) {
	defer rows.Close()

	var runs []models.PipelineRun
	for rows.Next() {
		var run models.PipelineRun
		if err := rows.Scan(
			&run.ID,
			&run.TopicID,
			&run.JobID,
			&run.Status,
			&run.Detail,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// CreateRun records the start of a generation attempt for a topic.
// Exactly one row per attempt; the job id is assigned by the database.
func (d *DB) CreateRun(ctx context.Context, run *models.PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (topic_id, detail)
		VALUES ($1, $2)
		RETURNING id, job_id, status, started_at
	`
	return d.Pool.QueryRow(ctx, query, run.TopicID, run.Detail).
		Scan(&run.ID, &run.JobID, &run.Status, &run.StartedAt)
}

// FinishRun applies the single permitted terminal transition. The
// conditional WHERE enforces the state machine at the row level: once a
// run leaves started, later writes affect zero rows.
func (d *DB) FinishRun(ctx context.Context, id int64, status, detail string) (*models.PipelineRun, error) {
	if !models.ValidRunTransition(models.RunStarted, status) {
		return nil, ErrInvalidRunStatus
	}

	query := `
		UPDATE pipeline_runs
		SET status = $1, detail = $2, finished_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING ` + runColumns
	run, err := scanRun(d.Pool.QueryRow(ctx, query, status, detail, id, models.RunStarted))
	if errors.Is(err, ErrRunNotFound) {
		// Distinguish a missing run from one already terminal.
		if _, getErr := d.GetRunByID(ctx, id); getErr == nil {
			return nil, ErrRunFinished
		}
		return nil, ErrRunNotFound
	}
	return run, err
}

// GetRunByID retrieves a pipeline run by its ID.
func (d *DB) GetRunByID(ctx context.Context, id int64) (*models.PipelineRun, error) {
	query := `SELECT ` + runColumns + ` FROM pipeline_runs WHERE id = $1`
	return scanRun(d.Pool.QueryRow(ctx, query, id))
}

// ListRecentRuns returns up to limit runs, newest start time first.
// id breaks ties between runs started in the same instant.
func (d *DB) ListRecentRuns(ctx context.Context, limit int) ([]models.PipelineRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM pipeline_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1
	`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanRuns(rows)
}

// CountRunsByStatus returns run totals grouped by status. Used by the
// metrics collector.
func (d *DB) CountRunsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM pipeline_runs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
