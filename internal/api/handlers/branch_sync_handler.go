package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/elvinq/branchfeedback/backend/internal/application/services"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/bankapi"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/observability"
)

// BranchSyncService defines the sync operations used by the handler.
type BranchSyncService interface {
	Sync(ctx context.Context) (*services.SyncResult, error)
	Preview(ctx context.Context) ([]services.PreviewedBranch, error)
}

// BranchSyncHandler handles feed sync HTTP requests
type BranchSyncHandler struct {
	service BranchSyncService
}

// NewBranchSyncHandler creates a new sync handler
func NewBranchSyncHandler(service BranchSyncService) *BranchSyncHandler {
	return &BranchSyncHandler{service: service}
}

// PreviewSync handles GET /api/branches/sync: fetch and transform the feed
// without persisting anything.
func (h *BranchSyncHandler) PreviewSync(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.Preview(r.Context())
	if err != nil {
		h.respondWithFeedError(w, r, err, "Failed to fetch branches")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(branches),
		"branches": branches,
	})
}

// RunSync handles POST /api/branches/sync: fetch the feed and upsert it.
func (h *BranchSyncHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Sync(r.Context())
	if err != nil {
		h.respondWithFeedError(w, r, err, "Failed to sync branches")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": result.Message,
		"stats":   result.Stats,
	})
}

// respondWithFeedError maps upstream feed failures to 502; anything else is
// an internal error.
func (h *BranchSyncHandler) respondWithFeedError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logger := observability.LoggerFromContext(r.Context())

	var upstreamErr *bankapi.UpstreamError
	var malformedErr *bankapi.MalformedResponseError
	if errors.As(err, &upstreamErr) || errors.As(err, &malformedErr) {
		logger.Error().Err(err).Msg("bank feed unavailable")
		respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   message,
			"details": err.Error(),
		})
		return
	}

	logger.Error().Err(err).Msg("branch sync failed")
	respondWithError(w, http.StatusInternalServerError, message)
}
