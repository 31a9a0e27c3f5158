package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultGeminiModel   = "gemini-2.5-pro"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	requestTimeout       = 60 * time.Second
)

const analyzeSystemPrompt = `You are an expert content analyst specializing in viral social media content and YouTube Shorts.

Analyze the given text segment for its potential to create engaging short-form video content.

Consider these factors:
- Engagement Score (0.0-1.0): How likely this content is to engage viewers
- Emotion Score (0.0-1.0): Emotional impact and intensity
- Viral Potential (0.0-1.0): Likelihood to be shared and go viral
- Quotability (0.0-1.0): How memorable and quotable the content is
- Emotions: List of emotions detected (humor, surprise, excitement, inspiration, etc.)
- Keywords: Important keywords that make this content engaging
- Reason: Brief explanation of why this segment is engaging

Focus on content that has strong emotional hooks, surprising elements, humor,
inspirational moments, debate-worthy topics, clear storytelling, and quotable phrases.`

const metadataSystemPrompt = `You are an expert YouTube content creator specializing in viral Shorts.

Generate engaging metadata for a YouTube Short based on the content segment and original video title.

Guidelines:
- Title: a catchy, clickable title (50-60 characters) that hooks viewers
- Description: an engaging description (100-200 words) with relevant hashtags
- Tags: 10-15 relevant tags for discoverability`

// GeminiScorer calls the Gemini API with structured JSON output. Each call
// is independently timed out; callers absorb failures with the fallback
// analysis, so a flaky or absent AI capability never fails a job.
type GeminiScorer struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiScorer creates a scorer. Empty model/baseURL use the defaults.
func NewGeminiScorer(apiKey, model, baseURL string) *GeminiScorer {
	if model == "" {
		model = defaultGeminiModel
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &GeminiScorer{
		key:     apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// AnalyzeSegment scores one candidate window's text.
func (g *GeminiScorer) AnalyzeSegment(ctx context.Context, text string) (Analysis, error) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"engagement_score": map[string]any{"type": "number"},
			"emotion_score":    map[string]any{"type": "number"},
			"viral_potential":  map[string]any{"type": "number"},
			"quotability":      map[string]any{"type": "number"},
			"emotions":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"keywords":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"reason":           map[string]any{"type": "string"},
		},
		"required": []string{"engagement_score", "emotion_score", "viral_potential", "quotability", "reason"},
	}

	prompt := "Analyze this content segment for YouTube Shorts potential:\n\n" + text
	raw, err := g.generate(ctx, analyzeSystemPrompt, prompt, schema)
	if err != nil {
		return Analysis{}, err
	}

	var payload struct {
		Engagement  float64  `json:"engagement_score"`
		Emotion     float64  `json:"emotion_score"`
		Viral       float64  `json:"viral_potential"`
		Quotability float64  `json:"quotability"`
		Emotions    []string `json:"emotions"`
		Keywords    []string `json:"keywords"`
		Reason      string   `json:"reason"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Analysis{}, fmt.Errorf("parse analysis: %w", err)
	}

	a := Analysis{
		Engagement:  clamp(payload.Engagement, 0, 1),
		Emotion:     clamp(payload.Emotion, 0, 1),
		Viral:       clamp(payload.Viral, 0, 1),
		Quotability: clamp(payload.Quotability, 0, 1),
		Emotions:    firstN(payload.Emotions, 5),
		Keywords:    firstN(payload.Keywords, 10),
		Reason:      truncate(payload.Reason, 500),
	}
	a.ComputeOverall()
	return a, nil
}

// GenerateMetadata generates title/description/tags for a selected window.
func (g *GeminiScorer) GenerateMetadata(ctx context.Context, segmentText, videoTitle string) (Metadata, error) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"title", "description", "tags"},
	}

	prompt := fmt.Sprintf("Original video title: %s\n\nContent segment: %s\n\nGenerate optimized YouTube Shorts metadata for this content.",
		videoTitle, segmentText)
	raw, err := g.generate(ctx, metadataSystemPrompt, prompt, schema)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	if m.Title == "" {
		m.Title = "Viral Moment from " + videoTitle
	}
	m.Title = truncate(m.Title, 100)
	m.Tags = firstN(m.Tags, 15)
	return m, nil
}

// generate performs one structured-output generateContent call and returns
// the model's JSON text.
func (g *GeminiScorer) generate(ctx context.Context, system, prompt string, schema map[string]any) ([]byte, error) {
	payload := map[string]any{
		"system_instruction": map[string]any{
			"parts": []map[string]any{{"text": system}},
		},
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.key)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("gemini timeout after %s (model=%s)", requestTimeout, g.model)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(rb))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}
	return []byte(out.Candidates[0].Content.Parts[0].Text), nil
}
