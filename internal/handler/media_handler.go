package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MediaHandler serves stored media assets from the asset directory
type MediaHandler struct {
	mediaDir string
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaDir string) *MediaHandler {
	return &MediaHandler{mediaDir: mediaDir}
}

// Serve handles GET /media/{name}. Only flat names are served; anything that
// would escape the asset directory is rejected.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/media/")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusBadRequest, "Invalid asset name")
		return
	}

	path := filepath.Join(h.mediaDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "Asset not found")
		return
	}

	http.ServeFile(w, r, path)
}
