package models

import "time"

// Upload statuses for a rendered short. Publish outcomes are recorded per
// short and never change the owning job's status.
type UploadStatus string

const (
	UploadNotUploaded UploadStatus = "not_uploaded"
	UploadPending     UploadStatus = "pending"
	UploadInProgress  UploadStatus = "uploading"
	UploadUploaded    UploadStatus = "uploaded"
	UploadFailed      UploadStatus = "failed"
)

// Short is a rendered, vertically-formatted clip derived from one selected
// segment window. OutputPath is empty when rendering failed; RenderError
// then records why.
type Short struct {
	ID          string   `json:"id"`
	JobID       string   `json:"job_id"`
	Idx         int      `json:"idx"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	DurationSec float64  `json:"duration_sec"`

	OutputPath  string `json:"output_path,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	RenderError string `json:"render_error,omitempty"`

	EngagementScore float64 `json:"engagement_score"`
	ViralPotential  float64 `json:"viral_potential"`
	ClipReason      string  `json:"clip_reason,omitempty"`

	UploadStatus   UploadStatus `json:"upload_status"`
	YouTubeVideoID string       `json:"youtube_video_id,omitempty"`
	YouTubeURL     string       `json:"youtube_url,omitempty"`
	UploadError    string       `json:"upload_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Rendered reports whether the clip file was produced.
func (s *Short) Rendered() bool {
	return s.OutputPath != "" && s.RenderError == ""
}
