package routes

import (
	"net/http"

	"github.com/elvinq/branchfeedback/backend/internal/api/handlers"
	"github.com/elvinq/branchfeedback/backend/internal/api/middleware"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	branchHandler   *handlers.BranchHandler
	syncHandler     *handlers.BranchSyncHandler
	feedbackHandler *handlers.FeedbackHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	branchHandler *handlers.BranchHandler,
	syncHandler *handlers.BranchSyncHandler,
	feedbackHandler *handlers.FeedbackHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		branchHandler:   branchHandler,
		syncHandler:     syncHandler,
		feedbackHandler: feedbackHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Branch endpoints
	r.mux.HandleFunc("GET /api/branches", r.branchHandler.ListBranches)
	r.mux.HandleFunc("GET /api/branches/stats", r.branchHandler.GetStats)
	r.mux.HandleFunc("GET /api/branches/nearby", r.branchHandler.GetNearby)
	r.mux.HandleFunc("GET /api/branches/search", r.branchHandler.SearchBranches)
	r.mux.HandleFunc("GET /api/branches/{id}", r.branchHandler.GetBranch)
	r.mux.HandleFunc("GET /api/branches/{id}/feedback", r.feedbackHandler.ListBranchFeedback)
	r.mux.HandleFunc("GET /api/branches/{id}/feedback-link", r.branchHandler.GetFeedbackLink)

	// Feed sync endpoints
	r.mux.HandleFunc("GET /api/branches/sync", r.syncHandler.PreviewSync)
	r.mux.HandleFunc("POST /api/branches/sync", r.syncHandler.RunSync)

	// Feedback endpoints
	r.mux.HandleFunc("POST /api/feedback", r.feedbackHandler.SubmitFeedback)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
