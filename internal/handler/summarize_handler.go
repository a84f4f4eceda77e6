package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/briefd/briefd/internal/summarize"
	"github.com/briefd/briefd/internal/youtube"
)

// SummarizeHandler serves the synchronous summarization routes: raw text and
// YouTube URLs whose transcripts are fetched inline.
type SummarizeHandler struct {
	summarizer   summarize.Summarizer
	transcripts  *youtube.Client
	wordLimit    int
	defaultModel string
}

// NewSummarizeHandler creates a new summarize handler
func NewSummarizeHandler(
	summarizer summarize.Summarizer,
	transcripts *youtube.Client,
	wordLimit int,
	defaultModel string,
) *SummarizeHandler {
	return &SummarizeHandler{
		summarizer:   summarizer,
		transcripts:  transcripts,
		wordLimit:    wordLimit,
		defaultModel: defaultModel,
	}
}

// TextRequest is the body for POST /summarize-text
type TextRequest struct {
	Text      string `json:"text"`
	ModelName string `json:"model_name"`
}

// URLRequest is the body for POST /summarize-url
type URLRequest struct {
	URL       string `json:"url"`
	Language  string `json:"language"`
	ModelName string `json:"model_name"`
}

// SummaryResponse carries a generated summary
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// Text handles POST /summarize-text
func (h *SummarizeHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Empty input")
		return
	}

	h.summarizeAndRespond(w, r, text, req.ModelName)
}

// URL handles POST /summarize-url: extracts the video ID, fetches the caption
// transcript, and summarizes it inline.
func (h *SummarizeHandler) URL(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "No URL provided")
		return
	}

	transcript, err := h.transcripts.Transcript(r.Context(), req.URL, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, youtube.ErrInvalidURL):
			writeError(w, http.StatusBadRequest, "Invalid YouTube URL")
		case errors.Is(err, youtube.ErrVideoUnavailable):
			writeError(w, http.StatusNotFound, "Video unavailable")
		case errors.Is(err, youtube.ErrNoCaptions):
			writeError(w, http.StatusForbidden, "Transcript is disabled for this video")
		default:
			writeError(w, http.StatusInternalServerError, "Transcript fetch failed: "+err.Error())
		}
		return
	}

	if summarize.WordCount(transcript) == 0 {
		writeError(w, http.StatusBadRequest, "Transcript is empty")
		return
	}

	h.summarizeAndRespond(w, r, transcript, req.ModelName)
}

func (h *SummarizeHandler) summarizeAndRespond(w http.ResponseWriter, r *http.Request, text, modelName string) {
	if modelName == "" {
		modelName = h.defaultModel
	}

	text = summarize.TruncateWords(text, h.wordLimit)

	summary, err := h.summarizer.Summarize(r.Context(), text, modelName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{Summary: summary})
}
