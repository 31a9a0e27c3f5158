package pipeline

import (
	"log"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/analyze"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/config"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/ffmpeg"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/publish"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/transcribe"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/youtube"
)

// NewFromConfig wires a pipeline with the default adapters: YouTube
// fetcher, caption/whisper/placeholder transcription chain, Gemini scorer
// and ffmpeg renderer. Missing credentials degrade capabilities instead of
// failing: no AI key means fallback scoring, no publish credential means
// the uploading stage is skipped.
func NewFromConfig(
	jobs *storage.JobRepository,
	segments *storage.SegmentRepository,
	shorts *storage.ShortRepository,
	cfg config.Config,
) *Pipeline {
	fetcher := youtube.NewClient(cfg.CaptionLang)
	renderer := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)

	rungs := []transcribe.Transcriber{&transcribe.CaptionTranscriber{}}
	if cfg.WhisperModelDir != "" {
		whisper, err := transcribe.NewWhisperTranscriber(transcribe.DefaultWhisperConfig(cfg.WhisperModelDir))
		if err != nil {
			log.Printf("Whisper model unavailable, continuing without it: %v", err)
		} else {
			rungs = append(rungs, whisper)
		}
	}
	rungs = append(rungs, &transcribe.PlaceholderTranscriber{})

	var scorer analyze.Scorer
	if cfg.GeminiAPIKey != "" {
		scorer = analyze.NewGeminiScorer(cfg.GeminiAPIKey, cfg.GeminiModel, "")
	} else {
		log.Println("GEMINI_API_KEY not set, segments will be scored with the fallback method")
	}

	var publisher publish.Publisher = publish.Disabled{}
	if cfg.PublishEnabled() {
		publisher = publish.NewYouTubeUploader(cfg.YTClientID, cfg.YTClientSecret, cfg.YTRefreshToken)
	}

	return New(jobs, segments, shorts, fetcher, transcribe.NewChain(rungs...), scorer, renderer, publisher, cfg)
}
