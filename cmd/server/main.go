package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/config"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/handlers"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/pipeline"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/version"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/worker"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	cfg := config.FromEnv()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	jobRepo := storage.NewJobRepository(db)
	segmentRepo := storage.NewSegmentRepository(db)
	shortRepo := storage.NewShortRepository(db)

	p := pipeline.NewFromConfig(jobRepo, segmentRepo, shortRepo, cfg)

	w := worker.New(jobRepo, p)
	w.Start(context.Background())
	defer w.Stop()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	jobHandler := handlers.NewJobHandler(jobRepo, shortRepo)
	e.POST("/api/jobs", jobHandler.Submit)
	e.GET("/api/jobs", jobHandler.List)
	e.GET("/api/jobs/stats", jobHandler.Stats)
	e.GET("/api/jobs/:id/status", jobHandler.Status)
	e.GET("/api/jobs/:id/shorts", jobHandler.Shorts)
	e.DELETE("/api/jobs/:id", jobHandler.Delete)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	})

	log.Printf("Starting shorts server v%s on port %s", version.Version, cfg.Port)
	if err := e.Start(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}
