package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/briefd/briefd/internal/model"
	"github.com/briefd/briefd/internal/summarize"
	"github.com/briefd/briefd/internal/transcribe"
)

// Request describes one submitted job: the registry entry to report into, the
// scratch file holding the input media, and the requested summarizer model.
// The scratch file is exclusively owned by the job and removed when the run
// finishes, whatever the outcome.
type Request struct {
	JobID    string
	FilePath string
	Model    string
}

// Runner executes the full transcribe-and-summarize pipeline for one job.
// Every failure inside a run is converted into a terminal failed state on the
// registry; Run never panics into its caller and never leaves a job without
// an outcome.
type Runner struct {
	registry    *model.JobRegistry
	cache       ResultCache
	transcriber transcribe.Transcriber
	summarizer  summarize.Summarizer
	wordLimit   int
}

// NewRunner creates a pipeline runner with injected collaborators
func NewRunner(
	registry *model.JobRegistry,
	cache ResultCache,
	transcriber transcribe.Transcriber,
	summarizer summarize.Summarizer,
	wordLimit int,
) *Runner {
	return &Runner{
		registry:    registry,
		cache:       cache,
		transcriber: transcriber,
		summarizer:  summarizer,
		wordLimit:   wordLimit,
	}
}

// Run executes the pipeline for one job: fingerprint, cache lookup,
// transcribe, summarize, cache store, registry update. Exactly one outcome is
// written per job.
func (r *Runner) Run(ctx context.Context, req Request) {
	defer r.cleanup(req)
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Pipeline run panicked",
				"job_id", req.JobID,
				"panic", rec,
			)
			r.registry.Fail(req.JobID, fmt.Sprintf("internal pipeline error: %v", rec))
		}
	}()

	slog.Info("Starting pipeline run",
		"job_id", req.JobID,
		"file_path", req.FilePath,
		"model", req.Model,
	)

	fingerprint, err := FingerprintFile(req.FilePath)
	if err != nil {
		r.registry.Fail(req.JobID, err.Error())
		return
	}

	// A cache backend outage degrades to a miss; it must never fail the job.
	cached, hit, err := r.cache.Lookup(ctx, fingerprint)
	if err != nil {
		slog.Warn("Result cache lookup failed, recomputing",
			"job_id", req.JobID,
			"fingerprint", fingerprint,
			"error", err.Error(),
		)
	}
	if hit {
		slog.Info("Result cache hit, skipping transcription",
			"job_id", req.JobID,
			"fingerprint", fingerprint,
		)
		r.registry.Complete(req.JobID, cached.Summary)
		return
	}

	transcript, err := r.transcriber.Transcribe(ctx, req.FilePath)
	if err != nil {
		r.registry.Fail(req.JobID, err.Error())
		return
	}

	text := summarize.TruncateWords(transcript, r.wordLimit)
	if len(text) < len(transcript) {
		slog.Debug("Transcript truncated before summarization",
			"job_id", req.JobID,
			"word_limit", r.wordLimit,
		)
	}

	summary, err := r.summarizer.Summarize(ctx, text, req.Model)
	if err != nil {
		r.registry.Fail(req.JobID, err.Error())
		return
	}

	if err := r.cache.Store(ctx, fingerprint, CachedResult{
		Transcript: transcript,
		Summary:    summary,
	}); err != nil {
		slog.Warn("Result cache store failed",
			"job_id", req.JobID,
			"fingerprint", fingerprint,
			"error", err.Error(),
		)
	}

	r.registry.Complete(req.JobID, summary)

	slog.Info("Pipeline run completed",
		"job_id", req.JobID,
		"fingerprint", fingerprint,
		"summary_length", len(summary),
	)
}

// cleanup removes the job's scratch file on every exit path
func (r *Runner) cleanup(req Request) {
	if req.FilePath == "" {
		return
	}
	if err := os.Remove(req.FilePath); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove scratch file",
			"job_id", req.JobID,
			"file_path", req.FilePath,
			"error", err.Error(),
		)
	}
}
