package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
)

var (
	// ErrNotQueued is returned by Claim when the job is not in the queued
	// state, typically because another executor already claimed it.
	ErrNotQueued = errors.New("job is not queued")

	// ErrIllegalTransition is returned when an update would move a job
	// backwards or mutate a terminal job.
	ErrIllegalTransition = errors.New("illegal job transition")
)

// JobRepository is the data access layer for jobs.
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job in the queued state.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = models.StatusQueued
	}
	if job.AspectRatio == "" {
		job.AspectRatio = "9:16"
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, url, title, status, progress, current_step, aspect_ratio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.URL, job.Title, job.Status, job.Progress, job.CurrentStep, job.AspectRatio, job.CreatedAt, job.UpdatedAt)
	return err
}

// GetByID returns the job with the given id, or nil when it does not exist.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, url, title, status, progress, current_step, duration_sec, width, height,
		       uploader, view_count, aspect_ratio, video_path, audio_path, error, created_at, updated_at
		FROM jobs WHERE id = ?`, id)
	return scanJob(row)
}

// GetNextQueued returns the oldest queued job, or nil when the queue is empty.
func (r *JobRepository) GetNextQueued(ctx context.Context) (*models.Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, url, title, status, progress, current_step, duration_sec, width, height,
		       uploader, view_count, aspect_ratio, video_path, audio_path, error, created_at, updated_at
		FROM jobs WHERE status = ? ORDER BY created_at ASC LIMIT 1`, models.StatusQueued)
	return scanJob(row)
}

// Claim atomically moves a queued job into the downloading stage. A second
// claim of the same job fails with ErrNotQueued, which enforces at most one
// active executor per job id.
func (r *JobRepository) Claim(ctx context.Context, id string, progress int, step string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, progress = ?, current_step = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		models.StatusDownloading, progress, step, time.Now().UTC(), id, models.StatusQueued)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotQueued
	}
	return nil
}

// Advance moves a job forward to the given stage checkpoint. Status and
// progress are written together so pollers always observe a consistent pair.
// Backward moves and writes to terminal jobs are rejected.
func (r *JobRepository) Advance(ctx context.Context, id string, status models.Status, progress int, step string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, progress = ?, current_step = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?) AND progress <= ?`,
		status, progress, step, time.Now().UTC(),
		id, models.StatusCompleted, models.StatusFailed, progress)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrIllegalTransition
	}
	return nil
}

// Complete marks a job as successfully finished.
func (r *JobRepository) Complete(ctx context.Context, id string) error {
	return r.Advance(ctx, id, models.StatusCompleted, 100, "Completed")
}

// Fail marks a job as failed with a human-readable message. Progress stays
// frozen at its last checkpoint.
func (r *JobRepository) Fail(ctx context.Context, id string, errorMsg string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = ?, current_step = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)`,
		models.StatusFailed, errorMsg, "Failed", time.Now().UTC(),
		id, models.StatusCompleted, models.StatusFailed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrIllegalTransition
	}
	return nil
}

// SetMedia records the fetched source metadata and local file paths.
func (r *JobRepository) SetMedia(ctx context.Context, job *models.Job) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET title = ?, duration_sec = ?, width = ?, height = ?,
		       uploader = ?, view_count = ?, video_path = ?, audio_path = ?, updated_at = ?
		WHERE id = ?`,
		job.Title, job.DurationSec, job.Width, job.Height,
		job.Uploader, job.ViewCount, job.VideoPath, job.AudioPath, time.Now().UTC(), job.ID)
	return err
}

// ListRecent returns the most recently created jobs.
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, title, status, progress, current_step, duration_sec, width, height,
		       uploader, view_count, aspect_ratio, video_path, audio_path, error, created_at, updated_at
		FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		if err := scanJobInto(rows, &j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountByStatus returns the number of jobs per status.
func (r *JobRepository) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int64)
	for rows.Next() {
		var status models.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Delete removes a job and, via foreign keys, its segments and shorts.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row *sql.Row) (*models.Job, error) {
	var j models.Job
	err := scanJobInto(row, &j)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func scanJobInto(row rowScanner, j *models.Job) error {
	return row.Scan(
		&j.ID, &j.URL, &j.Title, &j.Status, &j.Progress, &j.CurrentStep,
		&j.DurationSec, &j.Width, &j.Height, &j.Uploader, &j.ViewCount,
		&j.AspectRatio, &j.VideoPath, &j.AudioPath, &j.Error,
		&j.CreatedAt, &j.UpdatedAt,
	)
}
