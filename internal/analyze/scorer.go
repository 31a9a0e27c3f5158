package analyze

import (
	"context"
	"log"
)

// Analysis holds the AI scores for one candidate window. All scores are
// in [0, 1]; Overall is the weighted blend used for ranking.
type Analysis struct {
	Engagement  float64  `json:"engagement_score"`
	Emotion     float64  `json:"emotion_score"`
	Viral       float64  `json:"viral_potential"`
	Quotability float64  `json:"quotability"`
	Overall     float64  `json:"overall_score"`
	Emotions    []string `json:"emotions,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

// ComputeOverall blends the component scores. Engagement and viral
// potential dominate; emotion and quotability refine.
func (a *Analysis) ComputeOverall() {
	a.Overall = 0.3*a.Engagement + 0.2*a.Emotion + 0.3*a.Viral + 0.2*a.Quotability
}

// Metadata is the generated title/description/tags for one short.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Scorer is the AI capability the analyzing stage calls per candidate
// window. Implementations may fail per call; callers fall back to the
// deterministic analysis instead of propagating the error.
type Scorer interface {
	AnalyzeSegment(ctx context.Context, text string) (Analysis, error)
	GenerateMetadata(ctx context.Context, segmentText, videoTitle string) (Metadata, error)
}

// ScoredCandidate pairs a candidate window with its analysis.
type ScoredCandidate struct {
	Candidate
	Analysis
}

// ScoreCandidates analyzes every candidate window. A nil scorer or a
// failed call yields the deterministic fallback analysis, so the result
// always has one entry per candidate.
func ScoreCandidates(ctx context.Context, scorer Scorer, cands []Candidate) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		var a Analysis
		if scorer == nil {
			a = FallbackAnalysis(c.Text)
		} else {
			var err error
			a, err = scorer.AnalyzeSegment(ctx, c.Text)
			if err != nil {
				log.Printf("Segment analysis failed, using fallback: %v", err)
				a = FallbackAnalysis(c.Text)
			}
		}
		a.ComputeOverall()
		scored = append(scored, ScoredCandidate{Candidate: c, Analysis: a})
	}
	return scored
}

// GenerateMetadata produces title/description/tags for a selected window,
// falling back deterministically when the scorer is absent or fails.
func GenerateMetadata(ctx context.Context, scorer Scorer, segmentText, videoTitle string) Metadata {
	if scorer == nil {
		return FallbackMetadata(segmentText, videoTitle)
	}
	m, err := scorer.GenerateMetadata(ctx, segmentText, videoTitle)
	if err != nil {
		log.Printf("Metadata generation failed, using fallback: %v", err)
		return FallbackMetadata(segmentText, videoTitle)
	}
	return m
}
