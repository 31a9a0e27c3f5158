package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
)

// ShortRepository is the data access layer for rendered shorts.
type ShortRepository struct {
	db *DB
}

// NewShortRepository creates a new ShortRepository.
func NewShortRepository(db *DB) *ShortRepository {
	return &ShortRepository{db: db}
}

// Create inserts a short. Failed renders are stored too, with an empty
// output path and a render error, so per-clip failures stay visible.
func (r *ShortRepository) Create(ctx context.Context, s *models.Short) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.UploadStatus == "" {
		s.UploadStatus = models.UploadNotUploaded
	}
	s.CreatedAt = time.Now().UTC()

	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shorts (id, job_id, idx, title, description, tags, start_sec, end_sec, duration_sec,
		                    output_path, file_size, render_error, engagement_score, viral_potential,
		                    clip_reason, upload_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.JobID, s.Idx, s.Title, s.Description, string(tags), s.Start, s.End, s.DurationSec,
		s.OutputPath, s.FileSize, s.RenderError, s.EngagementScore, s.ViralPotential,
		s.ClipReason, s.UploadStatus, s.CreatedAt)
	return err
}

// ListByJob returns a job's shorts ordered by index.
func (r *ShortRepository) ListByJob(ctx context.Context, jobID string) ([]models.Short, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, idx, title, description, tags, start_sec, end_sec, duration_sec,
		       output_path, file_size, render_error, engagement_score, viral_potential,
		       clip_reason, upload_status, youtube_video_id, youtube_url, upload_error, created_at
		FROM shorts WHERE job_id = ? ORDER BY idx ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shorts []models.Short
	for rows.Next() {
		var s models.Short
		var tags string
		if err := rows.Scan(&s.ID, &s.JobID, &s.Idx, &s.Title, &s.Description, &tags,
			&s.Start, &s.End, &s.DurationSec, &s.OutputPath, &s.FileSize, &s.RenderError,
			&s.EngagementScore, &s.ViralPotential, &s.ClipReason, &s.UploadStatus,
			&s.YouTubeVideoID, &s.YouTubeURL, &s.UploadError, &s.CreatedAt); err != nil {
			return nil, err
		}
		if tags != "" {
			_ = json.Unmarshal([]byte(tags), &s.Tags)
		}
		shorts = append(shorts, s)
	}
	return shorts, rows.Err()
}

// CountRendered returns how many shorts of a job have an output file.
func (r *ShortRepository) CountRendered(ctx context.Context, jobID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shorts WHERE job_id = ? AND output_path != ''`, jobID).Scan(&n)
	return n, err
}

// SetUploadStatus records a publish state change without an outcome yet.
func (r *ShortRepository) SetUploadStatus(ctx context.Context, id string, status models.UploadStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE shorts SET upload_status = ? WHERE id = ?`, status, id)
	return err
}

// SetUploaded records a successful publish outcome.
func (r *ShortRepository) SetUploaded(ctx context.Context, id, videoID, videoURL string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE shorts SET upload_status = ?, youtube_video_id = ?, youtube_url = ?, upload_error = ''
		WHERE id = ?`,
		models.UploadUploaded, videoID, videoURL, id)
	return err
}

// SetUploadFailed records a failed publish outcome. The owning job is not
// affected.
func (r *ShortRepository) SetUploadFailed(ctx context.Context, id, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE shorts SET upload_status = ?, upload_error = ? WHERE id = ?`,
		models.UploadFailed, reason, id)
	return err
}
