package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/briefd/briefd/internal/database"
	"github.com/briefd/briefd/internal/model"
)

// SummaryHandler serves persistence of client-supplied summary records
type SummaryHandler struct {
	repo *database.SummaryRepository
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(repo *database.SummaryRepository) *SummaryHandler {
	return &SummaryHandler{repo: repo}
}

// SaveResponse acknowledges a stored record
type SaveResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// Save handles POST /save-summary
func (h *SummaryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var record model.SummaryRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := record.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Save(r.Context(), &record); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, SaveResponse{Status: "saved", ID: record.ID})
}

// List handles GET /summaries
func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	records, err := h.repo.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if records == nil {
		records = []model.SummaryRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

// Get handles GET /summaries/{id}
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/summaries/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "Invalid summary ID")
		return
	}

	record, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrSummaryNotFound) {
			writeError(w, http.StatusNotFound, "Summary not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, record)
}
