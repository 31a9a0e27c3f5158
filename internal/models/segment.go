package models

// TranscriptSegment is a time-bounded slice of the source transcript.
// Time fields are immutable once created; the analysis fields are written
// once by the analyzing stage.
type TranscriptSegment struct {
	ID     int64   `json:"id"`
	JobID  string  `json:"job_id"`
	Seq    int     `json:"seq"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`

	// AI analysis scores, all in [0, 1]
	Engagement  float64  `json:"engagement_score"`
	Emotion     float64  `json:"emotion_score"`
	Viral       float64  `json:"viral_potential"`
	Quotability float64  `json:"quotability"`
	Overall     float64  `json:"overall_score"`
	Keywords    []string `json:"keywords,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Duration returns the segment length in seconds.
func (s *TranscriptSegment) Duration() float64 {
	return s.End - s.Start
}
