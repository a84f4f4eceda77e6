package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/briefd/briefd/internal/mindmap"
)

// MindMapHandler serves mind map generation from an existing summary
type MindMapHandler struct {
	generator *mindmap.Generator
}

// NewMindMapHandler creates a new mind map handler
func NewMindMapHandler(generator *mindmap.Generator) *MindMapHandler {
	return &MindMapHandler{generator: generator}
}

// MindMapRequest is the body for POST /generate-mindmap
type MindMapRequest struct {
	Summary string `json:"summary"`
}

// Generate handles POST /generate-mindmap
func (h *MindMapHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req MindMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Summary) == "" {
		writeError(w, http.StatusBadRequest, "summary is required")
		return
	}

	mindMap, err := h.generator.Generate(r.Context(), req.Summary)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, mindMap)
}
