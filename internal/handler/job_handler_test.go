package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/briefd/briefd/internal/fetch"
	"github.com/briefd/briefd/internal/model"
	"github.com/briefd/briefd/internal/pipeline"
	"github.com/briefd/briefd/internal/worker"
)

type countingTranscriber struct {
	calls atomic.Int64
	delay time.Duration
}

func (c *countingTranscriber) Transcribe(_ context.Context, filePath string) (string, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return "transcript of " + string(data), nil
}

type countingSummarizer struct {
	calls atomic.Int64
}

func (c *countingSummarizer) Summarize(_ context.Context, text, modelName string) (string, error) {
	c.calls.Add(1)
	return "summary[" + modelName + "] of " + text, nil
}

type jobTestEnv struct {
	handler     *JobHandler
	registry    *model.JobRegistry
	pool        *worker.Pool
	transcriber *countingTranscriber
	summarizer  *countingSummarizer
}

func newJobTestEnv(t *testing.T, workers, queueSize int, delay time.Duration) *jobTestEnv {
	t.Helper()

	registry := model.NewJobRegistry()
	transcriber := &countingTranscriber{delay: delay}
	summarizer := &countingSummarizer{}
	runner := pipeline.NewRunner(registry, pipeline.NewMemoryCache(time.Minute), transcriber, summarizer, 400)
	pool := worker.NewPool(workers, queueSize, runner)
	pool.Start()
	t.Cleanup(pool.Stop)

	fetcher := fetch.NewFetcher(5*time.Second, 1<<20)
	h := NewJobHandler(registry, pool, fetcher, t.TempDir(), "t5-small")
	return &jobTestEnv{
		handler:     h,
		registry:    registry,
		pool:        pool,
		transcriber: transcriber,
		summarizer:  summarizer,
	}
}

func multipartUpload(t *testing.T, filename, content, modelName string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatal(err)
	}
	if modelName != "" {
		if err := writer.WriteField("model_name", modelName); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/submit-job", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func submitJob(t *testing.T, env *jobTestEnv, filename, content, modelName string) string {
	t.Helper()

	rec := httptest.NewRecorder()
	env.handler.Submit(rec, multipartUpload(t, filename, content, modelName))
	if rec.Code != http.StatusOK {
		t.Fatalf("submit returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp SubmitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.JobID == "" {
		t.Fatal("submit response carries no job_id")
	}
	return resp.JobID
}

func pollUntilDone(t *testing.T, env *jobTestEnv, jobID string) model.JobView {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		view := env.registry.View(jobID)
		if view.Status != "processing" {
			return view
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return model.JobView{}
}

func TestSubmitReturnsBeforePipelineFinishes(t *testing.T) {
	env := newJobTestEnv(t, 1, 8, 300*time.Millisecond)

	start := time.Now()
	jobID := submitJob(t, env, "talk.mp3", "spoken words", "")
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("submit took %v, expected it to return before the pipeline runs", elapsed)
	}

	// The slow transcriber is still working, so the job polls as processing.
	if view := env.registry.View(jobID); view.Status != "processing" {
		t.Errorf("fresh job view = %+v, want processing", view)
	}

	view := pollUntilDone(t, env, jobID)
	if view.Summary != "summary[t5-small] of transcript of spoken words" {
		t.Errorf("final view = %+v", view)
	}
}

func TestSubmitWithoutFile(t *testing.T) {
	env := newJobTestEnv(t, 1, 8, 0)

	req := httptest.NewRequest(http.MethodPost, "/submit-job", nil)
	rec := httptest.NewRecorder()
	env.handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("No file uploaded")) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSubmitUsesRequestedModel(t *testing.T) {
	env := newJobTestEnv(t, 1, 8, 0)

	jobID := submitJob(t, env, "talk.mp3", "spoken words", "bart-large")
	view := pollUntilDone(t, env, jobID)
	if view.Summary != "summary[bart-large] of transcript of spoken words" {
		t.Errorf("view = %+v", view)
	}
}

func TestResultUnknownJobPollsAsProcessing(t *testing.T) {
	env := newJobTestEnv(t, 1, 8, 0)

	req := httptest.NewRequest(http.MethodGet, "/job-result/not-a-real-job", nil)
	rec := httptest.NewRecorder()
	env.handler.Result(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var view model.JobView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.Status != "processing" {
		t.Errorf("view = %+v, want processing", view)
	}
}

func TestResultRejectsNestedPath(t *testing.T) {
	env := newJobTestEnv(t, 1, 8, 0)

	req := httptest.NewRequest(http.MethodGet, "/job-result/a/b", nil)
	rec := httptest.NewRecorder()
	env.handler.Result(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDuplicateContentServedFromCache(t *testing.T) {
	env := newJobTestEnv(t, 2, 8, 0)

	first := submitJob(t, env, "hello.mp3", "hello world", "t5-small")
	firstView := pollUntilDone(t, env, first)

	second := submitJob(t, env, "renamed.mp3", "hello world", "t5-small")
	secondView := pollUntilDone(t, env, second)

	if firstView.Summary != secondView.Summary {
		t.Errorf("cache replay differs: %q vs %q", firstView.Summary, secondView.Summary)
	}
	if calls := env.transcriber.calls.Load(); calls != 1 {
		t.Errorf("transcriber called %d times, want 1 for identical content", calls)
	}
	if calls := env.summarizer.calls.Load(); calls != 1 {
		t.Errorf("summarizer called %d times, want 1 for identical content", calls)
	}
}

func TestSubmitQueueFull(t *testing.T) {
	env := newJobTestEnv(t, 1, 1, 300*time.Millisecond)

	// Fill the worker and the single queue slot, then expect rejection.
	var sawRejection bool
	for i := 0; i < 4 && !sawRejection; i++ {
		rec := httptest.NewRecorder()
		env.handler.Submit(rec, multipartUpload(t, "talk.mp3", "spoken words", ""))
		if rec.Code == http.StatusServiceUnavailable {
			sawRejection = true
		} else if rec.Code != http.StatusOK {
			t.Fatalf("submit %d returned %d: %s", i, rec.Code, rec.Body.String())
		}
	}
	if !sawRejection {
		t.Error("expected a 503 once the queue was full")
	}
}

func TestSubmitVideoFetchesBeforeCreatingJob(t *testing.T) {
	media := []byte("remote media bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(media)
	}))
	defer srv.Close()

	env := newJobTestEnv(t, 1, 8, 0)

	body, _ := json.Marshal(VideoSubmitRequest{
		ID:       "vid-1",
		Title:    "A talk",
		VideoURL: srv.URL + "/talk.mp4",
	})
	req := httptest.NewRequest(http.MethodPost, "/submit-video-to-summarize", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.SubmitVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp SubmitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	view := pollUntilDone(t, env, resp.JobID)
	if view.Summary != "summary[t5-small] of transcript of remote media bytes" {
		t.Errorf("view = %+v", view)
	}
}

func TestSubmitVideoUnreachableURLCreatesNoJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	env := newJobTestEnv(t, 1, 8, 0)

	body, _ := json.Marshal(VideoSubmitRequest{
		ID:       "vid-2",
		Title:    "Gone",
		VideoURL: srv.URL + "/missing.mp4",
	})
	req := httptest.NewRequest(http.MethodPost, "/submit-video-to-summarize", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.SubmitVideo(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if env.registry.Len() != 0 {
		t.Errorf("registry holds %d jobs, none should exist for a failed fetch", env.registry.Len())
	}
}

func TestSubmitVideoMissingFields(t *testing.T) {
	env := newJobTestEnv(t, 1, 8, 0)

	body, _ := json.Marshal(VideoSubmitRequest{ID: "vid-3"})
	req := httptest.NewRequest(http.MethodPost, "/submit-video-to-summarize", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.SubmitVideo(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
