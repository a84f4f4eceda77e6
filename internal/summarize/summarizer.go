package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a summarization engine. Condense the user's text " +
	"into a short, faithful summary of a few sentences. Output only the summary."

// Summarizer turns text into a condensed summary using the requested backend
// model. The model name is a free-form string chosen by the client.
type Summarizer interface {
	Summarize(ctx context.Context, text, modelName string) (string, error)
}

// OpenAISummarizer produces summaries through an OpenAI-compatible chat API
type OpenAISummarizer struct {
	client       *openai.Client
	defaultModel string
	maxAttempts  int
	initialDelay time.Duration
}

// Options configures the summarization backend
type Options struct {
	APIKey       string
	BaseURL      string // optional, for OpenAI-compatible backends
	DefaultModel string // used when the client supplies no model name
	Timeout      time.Duration
}

// NewOpenAISummarizer creates a summarizer backed by the chat completion API
func NewOpenAISummarizer(opts Options) *OpenAISummarizer {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &OpenAISummarizer{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: opts.DefaultModel,
		maxAttempts:  3,
		initialDelay: 500 * time.Millisecond,
	}
}

// Summarize generates a summary of the text with the requested model
func (s *OpenAISummarizer) Summarize(ctx context.Context, text, modelName string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: text},
	}
	out, err := s.chatWithRetry(ctx, messages, modelName)
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	return out, nil
}

// Complete sends a raw prompt to the chat API and returns the model's text.
// Used by callers that bring their own prompt, such as mind map generation.
func (s *OpenAISummarizer) Complete(ctx context.Context, prompt, modelName string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	return s.chatWithRetry(ctx, messages, modelName)
}

// chatWithRetry calls the chat API, retrying transient backend failures with
// exponential backoff.
func (s *OpenAISummarizer) chatWithRetry(ctx context.Context, messages []openai.ChatCompletionMessage, modelName string) (string, error) {
	if modelName == "" {
		modelName = s.defaultModel
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		out, err := s.chat(ctx, messages, modelName)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt < s.maxAttempts {
			delay := s.initialDelay * time.Duration(1<<(attempt-1))
			slog.Warn("Chat completion attempt failed, retrying",
				"attempt", attempt,
				"max_attempts", s.maxAttempts,
				"model", modelName,
				"next_retry_ms", delay.Milliseconds(),
				"error", err.Error(),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("backend unavailable after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *OpenAISummarizer) chat(ctx context.Context, messages []openai.ChatCompletionMessage, modelName string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelName,
		Messages:    messages,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("backend returned empty content")
	}

	return out, nil
}
