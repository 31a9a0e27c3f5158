package storage

import (
	"context"
	"testing"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
)

func TestShortCreateAndList(t *testing.T) {
	db := testDB(t)
	jobs := NewJobRepository(db)
	shorts := NewShortRepository(db)
	ctx := context.Background()

	job := createJob(t, jobs)
	s := &models.Short{
		JobID:       job.ID,
		Idx:         0,
		Title:       "Watch This",
		Tags:        []string{"shorts", "viral"},
		Start:       10,
		End:         40,
		DurationSec: 30,
		OutputPath:  "/tmp/short_1.mp4",
		FileSize:    1024,
	}
	if err := shorts.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated id")
	}
	if s.UploadStatus != models.UploadNotUploaded {
		t.Fatalf("upload status default: got %s", s.UploadStatus)
	}

	got, err := shorts.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 short, got %d", len(got))
	}
	if got[0].Title != "Watch This" || len(got[0].Tags) != 2 {
		t.Fatalf("unexpected short: %+v", got[0])
	}
	if !got[0].Rendered() {
		t.Fatal("expected rendered short")
	}
}

func TestShortCountRendered_SkipsFailures(t *testing.T) {
	db := testDB(t)
	jobs := NewJobRepository(db)
	shorts := NewShortRepository(db)
	ctx := context.Background()

	job := createJob(t, jobs)
	ok := &models.Short{JobID: job.ID, Idx: 0, Start: 0, End: 30, OutputPath: "/tmp/a.mp4"}
	failed := &models.Short{JobID: job.ID, Idx: 1, Start: 40, End: 70, RenderError: "ffmpeg exit 1"}
	if err := shorts.Create(ctx, ok); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := shorts.Create(ctx, failed); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := shorts.CountRendered(ctx, job.ID)
	if err != nil {
		t.Fatalf("count rendered: %v", err)
	}
	if n != 1 {
		t.Fatalf("rendered count: got %d, want 1", n)
	}
	if failed.Rendered() {
		t.Fatal("failed render must not count as rendered")
	}
}

func TestShortUploadOutcomes(t *testing.T) {
	db := testDB(t)
	jobs := NewJobRepository(db)
	shorts := NewShortRepository(db)
	ctx := context.Background()

	job := createJob(t, jobs)
	a := &models.Short{JobID: job.ID, Idx: 0, Start: 0, End: 30, OutputPath: "/tmp/a.mp4"}
	b := &models.Short{JobID: job.ID, Idx: 1, Start: 40, End: 70, OutputPath: "/tmp/b.mp4"}
	for _, s := range []*models.Short{a, b} {
		if err := shorts.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := shorts.SetUploaded(ctx, a.ID, "vid123", "https://youtube.com/shorts/vid123"); err != nil {
		t.Fatalf("set uploaded: %v", err)
	}
	if err := shorts.SetUploadFailed(ctx, b.ID, "token expired"); err != nil {
		t.Fatalf("set upload failed: %v", err)
	}

	got, err := shorts.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].UploadStatus != models.UploadUploaded || got[0].YouTubeVideoID != "vid123" {
		t.Fatalf("uploaded short: %+v", got[0])
	}
	if got[1].UploadStatus != models.UploadFailed || got[1].UploadError != "token expired" {
		t.Fatalf("failed short: %+v", got[1])
	}
}
