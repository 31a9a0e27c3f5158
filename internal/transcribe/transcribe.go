package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Segment is one time-coded piece of transcript text. Times are seconds
// from the start of the source.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Source describes the media a transcriber works from. Individual
// transcribers use the fields relevant to them.
type Source struct {
	VideoPath   string
	AudioPath   string // mono 16k wav, may be empty when audio extraction failed
	CaptionURL  string
	CaptionLang string
	DurationSec float64
}

// ErrNoTranscript signals that a transcriber produced nothing usable.
// The chain treats it as recoverable and moves to the next rung.
var ErrNoTranscript = errors.New("no transcript produced")

// Transcriber converts a media source into ordered, non-overlapping
// segments.
type Transcriber interface {
	Transcribe(ctx context.Context, src Source) ([]Segment, error)
}

// Chain tries each transcriber in order and returns the first usable
// transcript. The last rung should be a placeholder transcriber that
// cannot fail, so a chain result is never empty.
type Chain struct {
	rungs []Transcriber
}

// NewChain builds a transcription chain.
func NewChain(rungs ...Transcriber) *Chain {
	return &Chain{rungs: rungs}
}

// Transcribe runs the chain. Failures of individual rungs are logged and
// absorbed; the error return is non-nil only when every rung failed, which
// a chain ending in a Placeholder never does for positive durations.
func (c *Chain) Transcribe(ctx context.Context, src Source) ([]Segment, error) {
	var lastErr error
	for _, t := range c.rungs {
		segments, err := t.Transcribe(ctx, src)
		if err != nil {
			log.Printf("Transcriber %T failed, trying next: %v", t, err)
			lastErr = err
			continue
		}
		segments = Normalize(segments)
		if len(segments) == 0 {
			lastErr = ErrNoTranscript
			continue
		}
		return segments, nil
	}
	if lastErr == nil {
		lastErr = ErrNoTranscript
	}
	return nil, fmt.Errorf("all transcribers failed: %w", lastErr)
}

// Normalize orders segments by start time, drops empty-range entries and
// clamps overlaps so consecutive segments never intersect.
func Normalize(segments []Segment) []Segment {
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	out := segments[:0]
	prevEnd := 0.0
	for _, s := range segments {
		if s.Start < prevEnd {
			s.Start = prevEnd
		}
		if s.End <= s.Start {
			continue
		}
		s.Text = strings.TrimSpace(s.Text)
		out = append(out, s)
		prevEnd = s.End
	}
	return out
}
