package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/briefd/briefd/internal/fetch"
	"github.com/briefd/briefd/internal/model"
	"github.com/briefd/briefd/internal/pipeline"
	"github.com/briefd/briefd/internal/worker"
)

// JobHandler is the submission and polling boundary of the async pipeline
type JobHandler struct {
	registry     *model.JobRegistry
	pool         *worker.Pool
	fetcher      *fetch.Fetcher
	scratchDir   string
	defaultModel string
}

// NewJobHandler creates a new job handler
func NewJobHandler(
	registry *model.JobRegistry,
	pool *worker.Pool,
	fetcher *fetch.Fetcher,
	scratchDir string,
	defaultModel string,
) *JobHandler {
	return &JobHandler{
		registry:     registry,
		pool:         pool,
		fetcher:      fetcher,
		scratchDir:   scratchDir,
		defaultModel: defaultModel,
	}
}

// SubmitResponse carries the handle a client polls with
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// VideoSubmitRequest is the JSON body for remote-media submissions
type VideoSubmitRequest struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoURL     string `json:"videoUrl"`
	ModelName    string `json:"model_name"`
}

// Submit handles POST /submit-job: stores the uploaded file to scratch,
// registers a pending job, and hands it to the worker pool. The response
// returns as soon as the job is queued, regardless of pipeline duration.
func (h *JobHandler) Submit(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	modelName := r.FormValue("model_name")
	if modelName == "" {
		modelName = h.defaultModel
	}

	job := h.registry.Create(modelName)
	scratchPath := h.scratchPath(job.ID, header.Filename)

	if err := saveUpload(file, scratchPath); err != nil {
		h.registry.Fail(job.ID, "failed to store upload: "+err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	h.enqueue(w, job, scratchPath, modelName)
}

// SubmitVideo handles POST /submit-video-to-summarize: fetches the remote
// media to scratch storage first, so an unreachable URL is reported
// synchronously and no job is created for it.
func (h *JobHandler) SubmitVideo(w http.ResponseWriter, r *http.Request) {
	var req VideoSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ID == "" || req.Title == "" || req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "id, title and videoUrl are required")
		return
	}

	modelName := req.ModelName
	if modelName == "" {
		modelName = h.defaultModel
	}

	tmpPath := filepath.Join(h.scratchDir, "fetch-"+uuid.New().String())
	if err := h.fetcher.Download(r.Context(), req.VideoURL, tmpPath); err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch video: "+err.Error())
		return
	}

	job := h.registry.Create(modelName)
	scratchPath := h.scratchPath(job.ID, req.VideoURL)
	if err := os.Rename(tmpPath, scratchPath); err != nil {
		os.Remove(tmpPath)
		h.registry.Fail(job.ID, "failed to stage fetched media: "+err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to stage fetched media")
		return
	}

	h.enqueue(w, job, scratchPath, modelName)
}

// Result handles GET /job-result/{job_id}. Unknown identifiers poll as
// processing rather than 404, per the legacy contract.
func (h *JobHandler) Result(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/job-result/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	writeJSON(w, http.StatusOK, h.registry.View(jobID))
}

// enqueue submits the staged job to the pool and writes the job_id response
func (h *JobHandler) enqueue(w http.ResponseWriter, job *model.Job, scratchPath, modelName string) {
	err := h.pool.Submit(pipeline.Request{
		JobID:    job.ID,
		FilePath: scratchPath,
		Model:    modelName,
	})
	if err != nil {
		os.Remove(scratchPath)
		h.registry.Fail(job.ID, "submission rejected: "+err.Error())
		writeError(w, http.StatusServiceUnavailable, "Job queue is full, try again later")
		return
	}

	slog.Info("Job accepted",
		"job_id", job.ID,
		"model", modelName,
		"scratch_path", scratchPath,
	)

	writeJSON(w, http.StatusOK, SubmitResponse{JobID: job.ID})
}

// scratchPath names the job's scratch file by its identifier, keeping the
// source extension so downstream tools can sniff the container format.
func (h *JobHandler) scratchPath(jobID, source string) string {
	ext := filepath.Ext(source)
	if ext == "" || len(ext) > 8 {
		ext = ".mp3"
	}
	return filepath.Join(h.scratchDir, jobID+ext)
}

func saveUpload(src io.Reader, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(destPath)
		return err
	}

	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return err
	}

	return nil
}
