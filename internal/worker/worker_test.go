package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/config"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/pipeline"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/youtube"
)

type failingFetcher struct{}

func (failingFetcher) Fetch(ctx context.Context, url, destDir string) (*youtube.Media, error) {
	return nil, errors.New("unreachable")
}

type nopRenderer struct{}

func (nopRenderer) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	return nil
}

func (nopRenderer) RenderVertical(ctx context.Context, in string, start, end float64, width, height int, out string) error {
	return nil
}

func (nopRenderer) ProbeDuration(ctx context.Context, in string) (float64, error) {
	return 0, errors.New("not available")
}

// The worker must pick up a queued job and drive it to a terminal state
// without any direct call to the pipeline.
func TestWorker_DispatchesQueuedJob(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	jobs := storage.NewJobRepository(db)
	segments := storage.NewSegmentRepository(db)
	shorts := storage.NewShortRepository(db)
	cfg := config.Config{WorkDir: filepath.Join(dir, "work"), MinScore: 0.4, MinClipSec: 15, MaxClipSec: 60, MaxShorts: 5}

	p := pipeline.New(jobs, segments, shorts, failingFetcher{}, nil, nil, nopRenderer{}, nil, cfg)

	ctx := context.Background()
	job := &models.Job{URL: "https://www.youtube.com/watch?v=abc"}
	if err := jobs.Create(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}

	w := New(jobs, p)
	w.SetInterval(10 * time.Millisecond)
	w.Start(ctx)
	defer w.Stop()

	deadline := time.After(3 * time.Second)
	for {
		got, err := jobs.GetByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if got.Status.Terminal() {
			if got.Status != models.StatusFailed {
				t.Fatalf("status: got %s, want failed", got.Status)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("job never reached a terminal state, last status %s", got.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
