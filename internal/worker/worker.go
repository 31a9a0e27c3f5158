package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/pipeline"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
)

// Worker polls for queued jobs and dispatches each onto its own goroutine.
// The pipeline's atomic claim guarantees one executor per job id even if a
// job is picked up twice.
type Worker struct {
	jobRepo  *storage.JobRepository
	pipeline *pipeline.Pipeline
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New creates a new worker.
func New(jobRepo *storage.JobRepository, p *pipeline.Pipeline) *Worker {
	return &Worker{
		jobRepo:  jobRepo,
		pipeline: p,
		interval: 1 * time.Second,
		stop:     make(chan struct{}),
	}
}

// SetInterval sets the polling interval.
func (w *Worker) SetInterval(interval time.Duration) {
	w.interval = interval
}

// Start begins processing jobs.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
	log.Println("Worker started")
}

// Stop waits for in-flight jobs and stops the worker.
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
	log.Println("Worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.dispatchNext(ctx)
		}
	}
}

func (w *Worker) dispatchNext(ctx context.Context) {
	job, err := w.jobRepo.GetNextQueued(ctx)
	if err != nil {
		log.Printf("Error getting next job: %v", err)
		return
	}
	if job == nil {
		return // nothing queued
	}

	w.wg.Add(1)
	go func(id string) {
		defer w.wg.Done()
		if err := w.pipeline.Run(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotQueued) {
				return // claimed by another executor
			}
			// Run already recorded the failure on the job.
			log.Printf("Job %s finished with error: %v", id, err)
		}
	}(job.ID)
}
