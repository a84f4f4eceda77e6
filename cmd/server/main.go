package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briefd/briefd/internal/config"
	"github.com/briefd/briefd/internal/database"
	"github.com/briefd/briefd/internal/fetch"
	"github.com/briefd/briefd/internal/handler"
	"github.com/briefd/briefd/internal/mindmap"
	"github.com/briefd/briefd/internal/model"
	"github.com/briefd/briefd/internal/pipeline"
	"github.com/briefd/briefd/internal/scheduler"
	"github.com/briefd/briefd/internal/summarize"
	"github.com/briefd/briefd/internal/transcribe"
	"github.com/briefd/briefd/internal/worker"
	"github.com/briefd/briefd/internal/youtube"
	"github.com/briefd/briefd/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting briefd summarization service", "version", version)

	for _, dir := range []string{cfg.ScratchDir, cfg.MediaDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("Failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	summaryRepo := database.NewSummaryRepository(db)
	cacheRepo := database.NewCacheRepository(db, cfg.CacheTTL)

	// Initialize the job registry and pipeline collaborators
	registry := model.NewJobRegistry()

	transcriber := transcribe.NewOpenAITranscriber(transcribe.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.TranscribeModel,
		Timeout: cfg.BackendTimeout,
	})
	summarizer := summarize.NewOpenAISummarizer(summarize.Options{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		DefaultModel: cfg.DefaultModel,
		Timeout:      cfg.BackendTimeout,
	})

	// Initialize the pipeline runner and worker pool
	runner := pipeline.NewRunner(registry, cacheRepo, transcriber, summarizer, cfg.TruncateWordLimit)
	pool := worker.NewPool(cfg.WorkerPoolSize, cfg.JobQueueSize, runner)
	pool.Start()

	// Initialize the maintenance scheduler
	maintenance := scheduler.NewMaintenance(cfg, registry, cacheRepo)
	if err := maintenance.Start(); err != nil {
		slog.Error("Failed to start maintenance scheduler", "error", err)
		os.Exit(1)
	}

	// Initialize remaining collaborators
	fetcher := fetch.NewFetcher(cfg.FetchTimeout, cfg.MaxFetchBytes)
	transcripts := youtube.NewClient(cfg.FetchTimeout)
	generator := mindmap.NewGenerator(summarizer, cfg.DefaultModel)

	// Initialize handlers
	jobHandler := handler.NewJobHandler(registry, pool, fetcher, cfg.ScratchDir, cfg.DefaultModel)
	summarizeHandler := handler.NewSummarizeHandler(summarizer, transcripts, cfg.TruncateWordLimit, cfg.DefaultModel)
	mindMapHandler := handler.NewMindMapHandler(generator)
	summaryHandler := handler.NewSummaryHandler(summaryRepo)
	mediaHandler := handler.NewMediaHandler(cfg.MediaDir)
	healthHandler := handler.NewHealthHandler(db, version)

	// Create CORS config
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	// Create router
	router := handler.NewRouter(
		jobHandler,
		summarizeHandler,
		mindMapHandler,
		summaryHandler,
		mediaHandler,
		healthHandler,
		corsConfig,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first so no new jobs arrive
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Stop background components (wait for in-flight jobs)
	slog.Info("Stopping background workers...")
	maintenance.Stop()
	pool.Stop()

	slog.Info("briefd stopped")
}
