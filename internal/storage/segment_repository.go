package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
)

// SegmentRepository is the data access layer for transcript segments.
type SegmentRepository struct {
	db *DB
}

// NewSegmentRepository creates a new SegmentRepository.
func NewSegmentRepository(db *DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// CreateBatch inserts a job's transcript segments in one transaction.
// Segments must be ordered and non-overlapping; seq is assigned from the
// slice position.
func (r *SegmentRepository) CreateBatch(ctx context.Context, jobID string, segments []models.TranscriptSegment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transcript_segments (job_id, seq, start_sec, end_sec, text)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range segments {
		s := &segments[i]
		if s.End <= s.Start {
			return fmt.Errorf("segment %d: end %.3f is not after start %.3f", i, s.End, s.Start)
		}
		s.JobID = jobID
		s.Seq = i
		if _, err := stmt.ExecContext(ctx, jobID, i, s.Start, s.End, s.Text); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListByJob returns a job's segments ordered by sequence.
func (r *SegmentRepository) ListByJob(ctx context.Context, jobID string) ([]models.TranscriptSegment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, seq, start_sec, end_sec, text,
		       engagement, emotion, viral, quotability, overall, keywords, notes
		FROM transcript_segments WHERE job_id = ? ORDER BY seq ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []models.TranscriptSegment
	for rows.Next() {
		var s models.TranscriptSegment
		var keywords string
		if err := rows.Scan(&s.ID, &s.JobID, &s.Seq, &s.Start, &s.End, &s.Text,
			&s.Engagement, &s.Emotion, &s.Viral, &s.Quotability, &s.Overall, &keywords, &s.Notes); err != nil {
			return nil, err
		}
		if keywords != "" {
			_ = json.Unmarshal([]byte(keywords), &s.Keywords)
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// UpdateAnalysis writes the AI scores for the segments in the given
// sequence range (inclusive).
func (r *SegmentRepository) UpdateAnalysis(ctx context.Context, jobID string, seqFrom, seqTo int, s *models.TranscriptSegment) error {
	keywords, err := json.Marshal(s.Keywords)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE transcript_segments
		SET engagement = ?, emotion = ?, viral = ?, quotability = ?, overall = ?, keywords = ?, notes = ?
		WHERE job_id = ? AND seq BETWEEN ? AND ?`,
		s.Engagement, s.Emotion, s.Viral, s.Quotability, s.Overall, string(keywords), s.Notes,
		jobID, seqFrom, seqTo)
	return err
}
