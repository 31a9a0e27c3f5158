package transcribe

import (
	"context"
	"fmt"
)

// placeholderWindowSec is the interval width used when no transcription
// capability produced text. Downstream scoring then works on time windows
// alone.
const placeholderWindowSec = 30.0

// PlaceholderTranscriber is the last rung of the chain. It emits fixed
// intervals across the media duration so downstream stages always have
// segments to operate on.
type PlaceholderTranscriber struct{}

// Transcribe produces one segment per interval, and at minimum a single
// segment covering the whole duration.
func (t *PlaceholderTranscriber) Transcribe(ctx context.Context, src Source) ([]Segment, error) {
	if src.DurationSec <= 0 {
		return nil, fmt.Errorf("unknown media duration: %w", ErrNoTranscript)
	}

	var segments []Segment
	for start := 0.0; start < src.DurationSec; start += placeholderWindowSec {
		end := start + placeholderWindowSec
		if end > src.DurationSec {
			end = src.DurationSec
		}
		segments = append(segments, Segment{
			Start: start,
			End:   end,
			Text:  fmt.Sprintf("Audio segment from %.0fs to %.0fs", start, end),
		})
	}
	return segments, nil
}
