package analyze

import (
	"strings"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
)

// maxCandidates caps candidate growth so scoring cost stays predictable on
// long transcripts.
const maxCandidates = 200

// Candidate is a segment window considered for scoring: one transcript
// segment or a merged run of consecutive segments whose span fits the
// configured clip duration range.
type Candidate struct {
	Start   float64
	End     float64
	Text    string
	SeqFrom int
	SeqTo   int
}

// Duration returns the window length in seconds.
func (c *Candidate) Duration() float64 {
	return c.End - c.Start
}

// BuildCandidates merges consecutive transcript segments into candidate
// windows within [minSec, maxSec]. When no window fits the bounds it falls
// back to a single clamped window, so the result is non-empty whenever
// segments exist.
func BuildCandidates(segments []models.TranscriptSegment, minSec, maxSec float64) []Candidate {
	if minSec <= 0 {
		minSec = 1
	}
	if maxSec <= 0 || maxSec < minSec {
		return nil
	}
	if len(segments) == 0 {
		return nil
	}

	var out []Candidate
	for i := 0; i < len(segments); i++ {
		start := segments[i].Start
		var parts []string
		for j := i; j < len(segments); j++ {
			end := segments[j].End
			win := end - start
			if win > maxSec {
				break
			}
			if text := strings.TrimSpace(segments[j].Text); text != "" {
				parts = append(parts, text)
			}
			if win < minSec {
				continue
			}
			out = append(out, Candidate{
				Start:   start,
				End:     end,
				Text:    strings.Join(parts, " "),
				SeqFrom: segments[i].Seq,
				SeqTo:   segments[j].Seq,
			})
			if len(out) >= maxCandidates {
				return out
			}
		}
	}

	if len(out) == 0 {
		out = append(out, clampedWindow(segments, maxSec))
	}
	return out
}

// clampedWindow covers as much of the transcript as the max clip length
// allows, starting from the first segment.
func clampedWindow(segments []models.TranscriptSegment, maxSec float64) Candidate {
	start := segments[0].Start
	end := segments[len(segments)-1].End
	if end-start > maxSec {
		end = start + maxSec
	}

	var parts []string
	seqTo := segments[0].Seq
	for _, s := range segments {
		if s.Start >= end {
			break
		}
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
		seqTo = s.Seq
	}
	return Candidate{
		Start:   start,
		End:     end,
		Text:    strings.Join(parts, " "),
		SeqFrom: segments[0].Seq,
		SeqTo:   seqTo,
	}
}
