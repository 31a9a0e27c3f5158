package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/config"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/pipeline"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "shorts <video-url>",
		Short: "Turn a long-form video into ranked vertical shorts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
		SilenceUsage: true,
	}
	root.Flags().String("aspect", "", "output aspect ratio (9:16, 1:1, 4:5)")
	root.Flags().Int("max", 0, "maximum shorts to produce")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, url string) error {
	cfg := config.FromEnv()
	if max, _ := cmd.Flags().GetInt("max"); max > 0 {
		cfg.MaxShorts = max
	}
	aspect, _ := cmd.Flags().GetString("aspect")

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	jobRepo := storage.NewJobRepository(db)
	segmentRepo := storage.NewSegmentRepository(db)
	shortRepo := storage.NewShortRepository(db)
	p := pipeline.NewFromConfig(jobRepo, segmentRepo, shortRepo, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	job := &models.Job{URL: url, AspectRatio: aspect}
	if err := jobRepo.Create(ctx, job); err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	fmt.Printf("job %s\n", job.ID)

	if err := p.Run(ctx, job.ID); err != nil {
		return err
	}

	shorts, err := shortRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return err
	}
	for _, s := range shorts {
		if !s.Rendered() {
			fmt.Printf("  clip %d: render failed: %s\n", s.Idx, s.RenderError)
			continue
		}
		fmt.Printf("  clip %d: %.1fs-%.1fs score %.2f -> %s\n", s.Idx, s.Start, s.End, s.EngagementScore, s.OutputPath)
	}
	return nil
}
