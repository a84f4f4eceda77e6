package handler

import (
	"net/http"

	"github.com/briefd/briefd/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	jobHandler       *JobHandler
	summarizeHandler *SummarizeHandler
	mindMapHandler   *MindMapHandler
	summaryHandler   *SummaryHandler
	mediaHandler     *MediaHandler
	healthHandler    *HealthHandler
	corsConfig       middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	jobHandler *JobHandler,
	summarizeHandler *SummarizeHandler,
	mindMapHandler *MindMapHandler,
	summaryHandler *SummaryHandler,
	mediaHandler *MediaHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		jobHandler:       jobHandler,
		summarizeHandler: summarizeHandler,
		mindMapHandler:   mindMapHandler,
		summaryHandler:   summaryHandler,
		mediaHandler:     mediaHandler,
		healthHandler:    healthHandler,
		corsConfig:       corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/health", rt.healthHandler.Health)
	mux.HandleFunc("/ready", rt.healthHandler.Ready)

	// Async pipeline endpoints
	mux.HandleFunc("/submit-job", post(rt.jobHandler.Submit))
	mux.HandleFunc("/submit-video-to-summarize", post(rt.jobHandler.SubmitVideo))
	mux.HandleFunc("/job-result/", get(rt.jobHandler.Result))

	// Synchronous summarization endpoints
	mux.HandleFunc("/summarize-text", post(rt.summarizeHandler.Text))
	mux.HandleFunc("/summarize-url", post(rt.summarizeHandler.URL))
	mux.HandleFunc("/generate-mindmap", post(rt.mindMapHandler.Generate))

	// Summary persistence and media assets
	mux.HandleFunc("/save-summary", post(rt.summaryHandler.Save))
	mux.HandleFunc("/summaries", get(rt.summaryHandler.List))
	mux.HandleFunc("/summaries/", get(rt.summaryHandler.Get))
	mux.HandleFunc("/media/", get(rt.mediaHandler.Serve))

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)

	return handler
}

// post restricts a handler to the POST method
func post(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		fn(w, r)
	}
}

// get restricts a handler to the GET method
func get(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		fn(w, r)
	}
}
