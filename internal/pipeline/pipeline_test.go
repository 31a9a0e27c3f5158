package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/analyze"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/config"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/transcribe"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/youtube"
)

type fakeFetcher struct {
	media *youtube.Media
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, destDir string) (*youtube.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := *f.media
	m.Path = filepath.Join(destDir, "source.mp4")
	return &m, nil
}

type fakeTranscriber struct {
	segments []transcribe.Segment
	err      error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, src transcribe.Source) ([]transcribe.Segment, error) {
	return f.segments, f.err
}

type fakeScorer struct {
	analysis analyze.Analysis
	err      error
	calls    int
}

func (f *fakeScorer) AnalyzeSegment(ctx context.Context, text string) (analyze.Analysis, error) {
	f.calls++
	return f.analysis, f.err
}

func (f *fakeScorer) GenerateMetadata(ctx context.Context, segmentText, videoTitle string) (analyze.Metadata, error) {
	if f.err != nil {
		return analyze.Metadata{}, f.err
	}
	return analyze.Metadata{Title: "Generated Title", Tags: []string{"shorts"}}, nil
}

type fakeRenderer struct {
	renderCalls int
	failRenders map[int]bool // render failure by call index, 0-based
	extractErr  error
}

func (f *fakeRenderer) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	return f.extractErr
}

func (f *fakeRenderer) RenderVertical(ctx context.Context, in string, start, end float64, width, height int, out string) error {
	call := f.renderCalls
	f.renderCalls++
	if f.failRenders[call] {
		return fmt.Errorf("ffmpeg exited with status 1")
	}
	return nil
}

func (f *fakeRenderer) ProbeDuration(ctx context.Context, in string) (float64, error) {
	return 0, errors.New("probe not available")
}

type fakePublisher struct {
	uploads int
	err     error
}

func (f *fakePublisher) Enabled() bool { return true }

func (f *fakePublisher) Upload(ctx context.Context, s *models.Short) (string, string, error) {
	f.uploads++
	if f.err != nil {
		return "", "", f.err
	}
	id := fmt.Sprintf("vid%d", f.uploads)
	return id, "https://youtube.com/shorts/" + id, nil
}

type testEnv struct {
	jobs     *storage.JobRepository
	segments *storage.SegmentRepository
	shorts   *storage.ShortRepository
	cfg      config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		jobs:     storage.NewJobRepository(db),
		segments: storage.NewSegmentRepository(db),
		shorts:   storage.NewShortRepository(db),
		cfg: config.Config{
			WorkDir:    filepath.Join(dir, "work"),
			MinScore:   0.4,
			MinClipSec: 15,
			MaxClipSec: 60,
			MaxShorts:  5,
		},
	}
}

func (e *testEnv) newJob(t *testing.T) *models.Job {
	t.Helper()
	job := &models.Job{URL: "https://www.youtube.com/watch?v=abc123"}
	if err := e.jobs.Create(context.Background(), job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func evenSegments(n int, lenSec float64) []transcribe.Segment {
	out := make([]transcribe.Segment, n)
	for i := range out {
		out[i] = transcribe.Segment{
			Start: float64(i) * lenSec,
			End:   float64(i+1) * lenSec,
			Text:  fmt.Sprintf("spoken words in window %d", i),
		}
	}
	return out
}

func TestRun_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	job := env.newJob(t)
	ctx := context.Background()

	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{media: &youtube.Media{Title: "Long Interview", DurationSec: 120}},
		&fakeTranscriber{segments: evenSegments(4, 30)},
		&fakeScorer{analysis: analyze.Analysis{Engagement: 0.9, Emotion: 0.9, Viral: 0.9, Quotability: 0.9}},
		&fakeRenderer{},
		nil,
		env.cfg)

	if err := p.Run(ctx, job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := env.jobs.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != models.StatusCompleted {
		t.Fatalf("status: got %s, want completed (error=%q)", got.Status, got.Error)
	}
	if got.Progress != 100 {
		t.Fatalf("progress: got %d, want 100", got.Progress)
	}
	if got.Title != "Long Interview" {
		t.Fatalf("title: got %q", got.Title)
	}

	shorts, err := env.shorts.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list shorts: %v", err)
	}
	if len(shorts) == 0 {
		t.Fatal("expected at least one short")
	}
	for _, s := range shorts {
		if d := s.End - s.Start; d < env.cfg.MinClipSec || d > env.cfg.MaxClipSec {
			t.Fatalf("short %d: duration %.1f outside clip bounds", s.Idx, d)
		}
		if !s.Rendered() {
			t.Fatalf("short %d: not rendered: %q", s.Idx, s.RenderError)
		}
		if s.UploadStatus != models.UploadNotUploaded {
			t.Fatalf("short %d: upload status %s without a publisher", s.Idx, s.UploadStatus)
		}
	}

	// Selected windows never overlap.
	for i := 0; i < len(shorts); i++ {
		for j := i + 1; j < len(shorts); j++ {
			if shorts[i].Start < shorts[j].End && shorts[j].Start < shorts[i].End {
				t.Fatalf("shorts %d and %d overlap", shorts[i].Idx, shorts[j].Idx)
			}
		}
	}

	segs, err := env.segments.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list segments: %v", err)
	}
	if len(segs) != 4 {
		t.Fatalf("expected 4 stored segments, got %d", len(segs))
	}
}

func TestRun_FetchFailureFailsJob(t *testing.T) {
	env := newTestEnv(t)
	job := env.newJob(t)
	ctx := context.Background()

	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{err: errors.New("video unavailable")},
		&fakeTranscriber{},
		nil,
		&fakeRenderer{},
		nil,
		env.cfg)

	err := p.Run(ctx, job.ID)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T: %v", err, err)
	}

	got, _ := env.jobs.GetByID(ctx, job.ID)
	if got.Status != models.StatusFailed {
		t.Fatalf("status: got %s, want failed", got.Status)
	}
	if !strings.Contains(got.Error, "Failed to download video") {
		t.Fatalf("error message: %q", got.Error)
	}
	if got.Progress != 10 {
		t.Fatalf("progress not frozen at claim checkpoint: %d", got.Progress)
	}
}

func TestRun_PlaceholderAndFallbackStillComplete(t *testing.T) {
	env := newTestEnv(t)
	job := env.newJob(t)
	ctx := context.Background()

	// Transcription errors out and every scoring call fails; the job must
	// still complete on placeholder intervals and fallback scores.
	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{media: &youtube.Media{Title: "No Captions Here", DurationSec: 90}},
		&fakeTranscriber{err: errors.New("no caption track")},
		&fakeScorer{err: errors.New("quota exceeded")},
		&fakeRenderer{},
		nil,
		env.cfg)

	if err := p.Run(ctx, job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := env.jobs.GetByID(ctx, job.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("status: got %s, want completed (error=%q)", got.Status, got.Error)
	}

	segs, err := env.segments.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list segments: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("expected 3 placeholder windows for 90s, got %d", len(segs))
	}

	// Fallback scores sit below the threshold, so the selector keeps only
	// the single best window.
	shorts, err := env.shorts.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list shorts: %v", err)
	}
	if len(shorts) != 1 {
		t.Fatalf("expected single best short, got %d", len(shorts))
	}
}

func TestRun_PartialRenderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.MinClipSec = 15
	env.cfg.MaxClipSec = 20
	env.cfg.MaxShorts = 3
	job := env.newJob(t)
	ctx := context.Background()

	renderer := &fakeRenderer{failRenders: map[int]bool{1: true, 2: true}}
	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{media: &youtube.Media{Title: "Talk", DurationSec: 60}},
		&fakeTranscriber{segments: evenSegments(3, 20)},
		&fakeScorer{analysis: analyze.Analysis{Engagement: 0.9, Emotion: 0.9, Viral: 0.9, Quotability: 0.9}},
		renderer,
		nil,
		env.cfg)

	if err := p.Run(ctx, job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := env.jobs.GetByID(ctx, job.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("status: got %s, want completed (error=%q)", got.Status, got.Error)
	}

	shorts, err := env.shorts.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list shorts: %v", err)
	}
	if len(shorts) != 3 {
		t.Fatalf("expected all 3 attempts recorded, got %d", len(shorts))
	}

	rendered, failed := 0, 0
	for _, s := range shorts {
		if s.Rendered() {
			rendered++
		} else if s.RenderError != "" {
			failed++
		}
	}
	if rendered != 1 || failed != 2 {
		t.Fatalf("rendered=%d failed=%d, want 1/2", rendered, failed)
	}
}

func TestRun_AllRendersFailedFailsJob(t *testing.T) {
	env := newTestEnv(t)
	job := env.newJob(t)
	ctx := context.Background()

	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{media: &youtube.Media{Title: "Talk", DurationSec: 60}},
		&fakeTranscriber{segments: evenSegments(2, 30)},
		&fakeScorer{analysis: analyze.Analysis{Engagement: 0.9, Emotion: 0.9, Viral: 0.9, Quotability: 0.9}},
		&fakeRenderer{failRenders: map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}},
		nil,
		env.cfg)

	err := p.Run(ctx, job.ID)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError, got %T: %v", err, err)
	}

	got, _ := env.jobs.GetByID(ctx, job.ID)
	if got.Status != models.StatusFailed {
		t.Fatalf("status: got %s, want failed", got.Status)
	}
	if !strings.Contains(got.Error, "Failed to generate shorts") {
		t.Fatalf("error message: %q", got.Error)
	}
}

func TestRun_PublisherUploadsRenderedShorts(t *testing.T) {
	env := newTestEnv(t)
	job := env.newJob(t)
	ctx := context.Background()

	publisher := &fakePublisher{}
	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{media: &youtube.Media{Title: "Talk", DurationSec: 120}},
		&fakeTranscriber{segments: evenSegments(4, 30)},
		&fakeScorer{analysis: analyze.Analysis{Engagement: 0.9, Emotion: 0.9, Viral: 0.9, Quotability: 0.9}},
		&fakeRenderer{},
		publisher,
		env.cfg)

	if err := p.Run(ctx, job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}

	shorts, err := env.shorts.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list shorts: %v", err)
	}
	if publisher.uploads != len(shorts) {
		t.Fatalf("uploads: got %d, want %d", publisher.uploads, len(shorts))
	}
	for _, s := range shorts {
		if s.UploadStatus != models.UploadUploaded {
			t.Fatalf("short %d: upload status %s", s.Idx, s.UploadStatus)
		}
		if s.YouTubeURL == "" {
			t.Fatalf("short %d: missing video url", s.Idx)
		}
	}
}

func TestRun_PublishFailureDoesNotFailJob(t *testing.T) {
	env := newTestEnv(t)
	job := env.newJob(t)
	ctx := context.Background()

	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{media: &youtube.Media{Title: "Talk", DurationSec: 60}},
		&fakeTranscriber{segments: evenSegments(2, 30)},
		&fakeScorer{analysis: analyze.Analysis{Engagement: 0.9, Emotion: 0.9, Viral: 0.9, Quotability: 0.9}},
		&fakeRenderer{},
		&fakePublisher{err: errors.New("token expired")},
		env.cfg)

	if err := p.Run(ctx, job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := env.jobs.GetByID(ctx, job.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("status: got %s, want completed", got.Status)
	}

	shorts, _ := env.shorts.ListByJob(ctx, job.ID)
	for _, s := range shorts {
		if s.Rendered() && s.UploadStatus != models.UploadFailed {
			t.Fatalf("short %d: upload status %s, want failed", s.Idx, s.UploadStatus)
		}
	}
}

func TestRun_SecondRunRejected(t *testing.T) {
	env := newTestEnv(t)
	job := env.newJob(t)
	ctx := context.Background()

	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{media: &youtube.Media{Title: "Talk", DurationSec: 60}},
		&fakeTranscriber{segments: evenSegments(2, 30)},
		nil,
		&fakeRenderer{},
		nil,
		env.cfg)

	if err := p.Run(ctx, job.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := p.Run(ctx, job.ID); !errors.Is(err, storage.ErrNotQueued) {
		t.Fatalf("second run: got %v, want ErrNotQueued", err)
	}
}

func TestRun_UnknownJob(t *testing.T) {
	env := newTestEnv(t)
	p := New(env.jobs, env.segments, env.shorts,
		&fakeFetcher{}, &fakeTranscriber{}, nil, &fakeRenderer{}, nil, env.cfg)

	if err := p.Run(context.Background(), "no-such-job"); err == nil {
		t.Fatal("expected error for unknown job id")
	}
}
