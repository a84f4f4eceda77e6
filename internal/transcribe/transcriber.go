package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber turns a media file into text. Implementations may take seconds
// to minutes per call; the pipeline only ever invokes them from a worker.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// OpenAITranscriber transcribes media through an OpenAI-compatible audio API
type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

// Options configures the transcription backend
type Options struct {
	APIKey  string
	BaseURL string // optional, for OpenAI-compatible backends
	Model   string // e.g. "whisper-1"
	Timeout time.Duration
}

// NewOpenAITranscriber creates a transcriber backed by the audio API
func NewOpenAITranscriber(opts Options) *OpenAITranscriber {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &OpenAITranscriber{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
	}
}

// Transcribe sends the file to the audio API and returns the transcript text
func (t *OpenAITranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("media file not readable: %w", err)
	}

	slog.Debug("Transcribing media file",
		"file_path", filePath,
		"model", t.model,
	)

	start := time.Now()
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	slog.Info("Transcription completed",
		"file_path", filePath,
		"duration_ms", time.Since(start).Milliseconds(),
		"transcript_length", len(resp.Text),
	)

	return resp.Text, nil
}
