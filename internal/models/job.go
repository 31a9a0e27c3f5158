package models

import "time"

// Status is a processing job state. Transitions only move forward through
// the stage order below; failed is reachable from any non-terminal state.
type Status string

const (
	StatusQueued       Status = "queued"
	StatusDownloading  Status = "downloading"
	StatusTranscribing Status = "transcribing"
	StatusAnalyzing    Status = "analyzing"
	StatusEditing      Status = "editing"
	StatusUploading    Status = "uploading"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// Terminal reports whether the status is final. Terminal jobs are immutable.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// stageOrder positions each active status on the pipeline timeline.
// Failed is not ordered; it is reachable from any active state.
var stageOrder = map[Status]int{
	StatusQueued:       0,
	StatusDownloading:  1,
	StatusTranscribing: 2,
	StatusAnalyzing:    3,
	StatusEditing:      4,
	StatusUploading:    5,
	StatusCompleted:    6,
}

// CanAdvanceTo reports whether moving from s to next is a legal forward
// transition. Uploading may be skipped (editing -> completed) when no
// publish credential is configured.
func (s Status) CanAdvanceTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	from, ok := stageOrder[s]
	if !ok {
		return false
	}
	to, ok := stageOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// Job is one end-to-end request to turn a source video into shorts.
// The running stage is the only writer; status pollers are readers.
type Job struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	CurrentStep string    `json:"current_step,omitempty"`
	DurationSec float64   `json:"duration_sec,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Uploader    string    `json:"uploader,omitempty"`
	ViewCount   int64     `json:"view_count,omitempty"`
	AspectRatio string    `json:"aspect_ratio"`
	VideoPath   string    `json:"-"`
	AudioPath   string    `json:"-"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
