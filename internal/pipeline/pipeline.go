package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/analyze"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/config"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/ffmpeg"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/publish"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/transcribe"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/youtube"
)

// Progress checkpoints on entry to each stage. Identical on every run for
// identical inputs; progress never regresses.
const (
	checkpointDownloading  = 10
	checkpointTranscribing = 30
	checkpointAnalyzing    = 50
	checkpointEditing      = 75
	checkpointUploading    = 90
)

// Fetcher retrieves the source video into a local working directory.
type Fetcher interface {
	Fetch(ctx context.Context, url, destDir string) (*youtube.Media, error)
}

// Transcriber converts the fetched media into transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, src transcribe.Source) ([]transcribe.Segment, error)
}

// Renderer is the media tool boundary: audio extraction, clip rendering
// and probing.
type Renderer interface {
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	RenderVertical(ctx context.Context, in string, start, end float64, width, height int, out string) error
	ProbeDuration(ctx context.Context, in string) (float64, error)
}

// Pipeline drives one job through its stages sequentially on the calling
// goroutine. The job row is the only shared state; every stage transition
// is a single write that moves status and progress together.
type Pipeline struct {
	jobs     *storage.JobRepository
	segments *storage.SegmentRepository
	shorts   *storage.ShortRepository

	fetcher     Fetcher
	transcriber Transcriber
	scorer      analyze.Scorer // nil when no AI credential is configured
	renderer    Renderer
	publisher   publish.Publisher

	cfg config.Config
}

// New wires a pipeline.
func New(
	jobs *storage.JobRepository,
	segments *storage.SegmentRepository,
	shorts *storage.ShortRepository,
	fetcher Fetcher,
	transcriber Transcriber,
	scorer analyze.Scorer,
	renderer Renderer,
	publisher publish.Publisher,
	cfg config.Config,
) *Pipeline {
	if publisher == nil {
		publisher = publish.Disabled{}
	}
	return &Pipeline{
		jobs:        jobs,
		segments:    segments,
		shorts:      shorts,
		fetcher:     fetcher,
		transcriber: transcriber,
		scorer:      scorer,
		renderer:    renderer,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// Run executes the whole pipeline for one job id. It claims the job
// atomically; a concurrent second Run for the same id fails with
// storage.ErrNotQueued instead of executing twice.
func (p *Pipeline) Run(ctx context.Context, jobID string) error {
	job, err := p.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s not found", jobID)
	}

	if err := p.jobs.Claim(ctx, jobID, checkpointDownloading, "Downloading video"); err != nil {
		return err
	}
	job.Status = models.StatusDownloading

	log.Printf("Job %s started: %s", job.ID, job.URL)
	if err := p.run(ctx, job); err != nil {
		log.Printf("Job %s failed: %v", job.ID, err)
		if failErr := p.jobs.Fail(ctx, job.ID, err.Error()); failErr != nil {
			log.Printf("Error failing job %s: %v", job.ID, failErr)
		}
		return err
	}

	if err := p.jobs.Complete(ctx, job.ID); err != nil {
		return err
	}
	log.Printf("Job %s completed", job.ID)
	return nil
}

func (p *Pipeline) run(ctx context.Context, job *models.Job) error {
	workDir := filepath.Join(p.cfg.WorkDir, job.ID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}

	media, err := p.fetchStage(ctx, job, workDir)
	if err != nil {
		return err
	}

	segments, err := p.transcribeStage(ctx, job, media, workDir)
	if err != nil {
		return err
	}

	selected, err := p.analyzeStage(ctx, job, segments)
	if err != nil {
		return err
	}

	if err := p.editStage(ctx, job, media, selected, workDir); err != nil {
		return err
	}

	if p.publisher.Enabled() {
		if err := p.uploadStage(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// fetchStage downloads the source and records its metadata. Fetch failures
// are fatal; the working directory is removed so no partial file stays
// referenced.
func (p *Pipeline) fetchStage(ctx context.Context, job *models.Job, workDir string) (*youtube.Media, error) {
	media, err := p.fetcher.Fetch(ctx, job.URL, workDir)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, &FetchError{Err: err}
	}

	if media.DurationSec <= 0 {
		if probed, err := p.renderer.ProbeDuration(ctx, media.Path); err == nil {
			media.DurationSec = probed
		}
	}

	job.Title = truncate(media.Title, 200)
	job.DurationSec = media.DurationSec
	job.Width = media.Width
	job.Height = media.Height
	job.Uploader = media.Uploader
	job.ViewCount = media.Views
	job.VideoPath = media.Path
	if err := p.jobs.SetMedia(ctx, job); err != nil {
		return nil, err
	}
	return media, nil
}

// transcribeStage derives and persists the transcript. Transcription is
// never a job failure: the chain bottoms out in placeholder intervals, and
// even a chain error is absorbed here as long as the duration is known.
func (p *Pipeline) transcribeStage(ctx context.Context, job *models.Job, media *youtube.Media, workDir string) ([]models.TranscriptSegment, error) {
	if err := p.jobs.Advance(ctx, job.ID, models.StatusTranscribing, checkpointTranscribing, "Transcribing audio"); err != nil {
		return nil, err
	}

	audioPath := filepath.Join(workDir, "audio.wav")
	if err := p.renderer.ExtractAudioMono16k(ctx, media.Path, audioPath); err != nil {
		log.Printf("Job %s: audio extraction failed, transcribers needing audio will be skipped: %v", job.ID, err)
		audioPath = ""
	}
	job.AudioPath = audioPath
	if err := p.jobs.SetMedia(ctx, job); err != nil {
		return nil, err
	}

	src := transcribe.Source{
		VideoPath:   media.Path,
		AudioPath:   audioPath,
		CaptionURL:  media.CaptionURL,
		CaptionLang: media.CaptionLang,
		DurationSec: media.DurationSec,
	}

	raw, err := p.transcriber.Transcribe(ctx, src)
	if err != nil || len(raw) == 0 {
		if err != nil {
			log.Printf("Job %s: transcription failed, using placeholder intervals: %v", job.ID, err)
		}
		placeholder := &transcribe.PlaceholderTranscriber{}
		raw, err = placeholder.Transcribe(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("transcription produced no segments: %w", err)
		}
	}

	segments := make([]models.TranscriptSegment, len(raw))
	for i, s := range raw {
		segments[i] = models.TranscriptSegment{Start: s.Start, End: s.End, Text: s.Text}
	}
	if err := p.segments.CreateBatch(ctx, job.ID, segments); err != nil {
		return nil, fmt.Errorf("store transcript: %w", err)
	}
	return segments, nil
}

// analyzeStage scores candidate windows and selects the set to render.
// Scoring failures fall back per window; selection always returns at least
// one window when candidates exist.
func (p *Pipeline) analyzeStage(ctx context.Context, job *models.Job, segments []models.TranscriptSegment) ([]analyze.ScoredCandidate, error) {
	if err := p.jobs.Advance(ctx, job.ID, models.StatusAnalyzing, checkpointAnalyzing, "Analyzing content"); err != nil {
		return nil, err
	}

	cands := analyze.BuildCandidates(segments, p.cfg.MinClipSec, p.cfg.MaxClipSec)
	if len(cands) == 0 {
		return nil, ErrNoCandidates
	}

	scored := analyze.ScoreCandidates(ctx, p.scorer, cands)
	selected := analyze.Select(scored, p.cfg.MinScore, p.cfg.MaxShorts)

	for _, sel := range selected {
		analysis := &models.TranscriptSegment{
			Engagement:  sel.Engagement,
			Emotion:     sel.Emotion,
			Viral:       sel.Viral,
			Quotability: sel.Quotability,
			Overall:     sel.Overall,
			Keywords:    sel.Keywords,
			Notes:       sel.Reason,
		}
		if err := p.segments.UpdateAnalysis(ctx, job.ID, sel.SeqFrom, sel.SeqTo, analysis); err != nil {
			return nil, fmt.Errorf("store analysis: %w", err)
		}
	}
	return selected, nil
}

// editStage renders one vertical clip per selected window. A failed render
// is recorded on its short and does not stop the rest; the stage fails
// only when nothing rendered.
func (p *Pipeline) editStage(ctx context.Context, job *models.Job, media *youtube.Media, selected []analyze.ScoredCandidate, workDir string) error {
	if err := p.jobs.Advance(ctx, job.ID, models.StatusEditing, checkpointEditing, "Rendering clips"); err != nil {
		return err
	}

	outDir := filepath.Join(workDir, "shorts")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	width, height := ffmpeg.AspectDims(job.AspectRatio)

	rendered := 0
	for i, sel := range selected {
		meta := analyze.GenerateMetadata(ctx, p.scorer, sel.Text, job.Title)

		short := &models.Short{
			JobID:           job.ID,
			Idx:             i + 1,
			Title:           truncate(meta.Title, 200),
			Description:     meta.Description,
			Tags:            meta.Tags,
			Start:           sel.Start,
			End:             sel.End,
			DurationSec:     sel.End - sel.Start,
			EngagementScore: sel.Overall,
			ViralPotential:  sel.Viral,
			ClipReason:      sel.Reason,
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("short_%d.mp4", i+1))
		if err := p.renderer.RenderVertical(ctx, media.Path, sel.Start, sel.End, width, height, outPath); err != nil {
			log.Printf("Job %s: failed to render clip %d: %v", job.ID, i+1, err)
			short.RenderError = err.Error()
		} else {
			short.OutputPath = outPath
			short.FileSize = fileSize(outPath)
			rendered++
		}

		if err := p.shorts.Create(ctx, short); err != nil {
			return fmt.Errorf("store short: %w", err)
		}
	}

	if rendered == 0 {
		return &RenderError{Attempted: len(selected)}
	}
	return nil
}

// uploadStage publishes rendered shorts. Outcomes are recorded per short;
// upload failures never fail the job.
func (p *Pipeline) uploadStage(ctx context.Context, job *models.Job) error {
	if err := p.jobs.Advance(ctx, job.ID, models.StatusUploading, checkpointUploading, "Uploading shorts"); err != nil {
		return err
	}

	shorts, err := p.shorts.ListByJob(ctx, job.ID)
	if err != nil {
		return err
	}
	for i := range shorts {
		s := &shorts[i]
		if !s.Rendered() {
			continue
		}
		if err := p.shorts.SetUploadStatus(ctx, s.ID, models.UploadInProgress); err != nil {
			return err
		}

		videoID, videoURL, err := p.publisher.Upload(ctx, s)
		if err != nil {
			log.Printf("Job %s: failed to upload short %d: %v", job.ID, s.Idx, err)
			if err := p.shorts.SetUploadFailed(ctx, s.ID, err.Error()); err != nil {
				return err
			}
			continue
		}
		if err := p.shorts.SetUploaded(ctx, s.ID, videoID, videoURL); err != nil {
			return err
		}
		log.Printf("Job %s: uploaded short %d: %s", job.ID, s.Idx, videoURL)
	}
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// ensure adapters satisfy the stage boundaries
var (
	_ Fetcher     = (*youtube.Client)(nil)
	_ Transcriber = (*transcribe.Chain)(nil)
	_ Renderer    = (*ffmpeg.Adapter)(nil)
)
