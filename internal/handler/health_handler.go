package handler

import (
	"net/http"

	"github.com/briefd/briefd/internal/database"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db      *database.MongoDB
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.MongoDB, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

// HealthResponse is the liveness body
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready handles GET /ready: the service is ready once MongoDB answers a ping
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Client.Ping(r.Context(), nil); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database not reachable")
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ready",
		Version: h.version,
	})
}
