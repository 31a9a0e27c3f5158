package analyze

import (
	"fmt"
	"strings"
)

// Keyword lists for the deterministic fallback analysis, used whenever the
// AI capability is unavailable or a call fails.
var (
	engagementKeywords = []string{"amazing", "incredible", "wow", "shocking", "unbelievable", "funny", "hilarious"}
	emotionKeywords    = []string{"love", "hate", "excited", "surprised", "happy", "angry", "scared"}
	viralKeywords      = []string{"viral", "trending", "share", "like", "subscribe", "follow"}
)

// FallbackAnalysis scores a window without the AI capability: simple
// keyword counting with floors so every window keeps some potential and
// the selector still has a usable ranking.
func FallbackAnalysis(text string) Analysis {
	lower := strings.ToLower(text)

	engagement := clamp(countHits(lower, engagementKeywords)*0.2, 0, 1)
	emotion := clamp(countHits(lower, emotionKeywords)*0.2, 0, 1)
	viral := clamp(countHits(lower, viralKeywords)*0.3, 0, 1)

	if engagement < 0.4 {
		engagement = 0.4
	}
	if emotion < 0.3 {
		emotion = 0.3
	}
	if viral < 0.3 {
		viral = 0.3
	}

	words := strings.Fields(text)
	a := Analysis{
		Engagement:  engagement,
		Emotion:     emotion,
		Viral:       viral,
		Quotability: clamp(float64(len(words))/20, 0, 1),
		Emotions:    []string{"general"},
		Keywords:    firstN(words, 5),
		Reason:      "Content analyzed with fallback method",
	}
	a.ComputeOverall()
	return a
}

// FallbackMetadata builds title/description/tags without the AI capability.
func FallbackMetadata(segmentText, videoTitle string) Metadata {
	var keyWords []string
	for _, w := range firstN(strings.Fields(segmentText), 5) {
		if len(w) > 3 {
			keyWords = append(keyWords, w)
		}
	}

	title := "Must See: " + strings.Join(firstN(keyWords, 3), " ")
	if len(title) > 60 {
		title = title[:60]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Incredible moment from %s\n\n", videoTitle)
	fmt.Fprintf(&b, "Content: %s\n\n", truncate(segmentText, 100))
	b.WriteString("#Shorts #Viral #MustWatch #Trending #Entertainment")

	return Metadata{
		Title:       title,
		Description: b.String(),
		Tags:        append([]string{"shorts", "viral", "trending", "entertainment", "mustsee"}, keyWords...),
	}
}

func countHits(lower string, keywords []string) float64 {
	var n float64
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			n++
		}
	}
	return n
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
