package transcribe

import (
	"context"
	"fmt"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/youtube"
)

// CaptionTranscriber derives the transcript from the source's caption
// track. It is the cheapest rung of the chain: no audio decoding at all.
type CaptionTranscriber struct{}

// Transcribe fetches and converts the caption track.
func (t *CaptionTranscriber) Transcribe(ctx context.Context, src Source) ([]Segment, error) {
	if src.CaptionURL == "" {
		return nil, fmt.Errorf("no caption track: %w", ErrNoTranscript)
	}

	entries, err := youtube.FetchCaptionByURL(ctx, src.CaptionURL)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}

	segments := make([]Segment, 0, len(entries))
	for _, e := range entries {
		segments = append(segments, Segment{
			Start: e.StartTime.Seconds(),
			End:   e.EndTime().Seconds(),
			Text:  e.Text,
		})
	}
	return segments, nil
}
