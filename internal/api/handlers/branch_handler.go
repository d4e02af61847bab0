package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

// BranchService defines the branch read operations used by the handler.
type BranchService interface {
	List(ctx context.Context, filter repositories.BranchFilter) ([]*entities.Branch, error)
	Get(ctx context.Context, id string) (*entities.Branch, error)
	Stats(ctx context.Context) (*repositories.BranchStats, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*entities.BranchWithDistance, error)
	Search(ctx context.Context, params repositories.BranchSearchParams) ([]*entities.Branch, error)
	FeedbackLink(ctx context.Context, id string) (string, error)
}

// BranchHandler handles branch-related HTTP requests
type BranchHandler struct {
	service BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(service BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

// ListBranches handles GET /api/branches
func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.BranchFilter{
		Type:   query.Get("type"),
		Query:  query.Get("q"),
		SortBy: query.Get("sort"),
		Limit:  parseIntParam(query.Get("limit"), 0),
		Offset: parseIntParam(query.Get("offset"), 0),
	}

	branches, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err, "failed to list branches")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"branches": branches,
		"count":    len(branches),
	})
}

// GetBranch handles GET /api/branches/{id}
func (h *BranchHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	branchID := r.PathValue("id")
	if branchID == "" {
		respondWithError(w, http.StatusBadRequest, "branch ID is required")
		return
	}

	branch, err := h.service.Get(r.Context(), branchID)
	if err != nil {
		respondWithAppError(w, err, "failed to get branch")
		return
	}

	respondWithJSON(w, http.StatusOK, branch)
}

// GetStats handles GET /api/branches/stats
func (h *BranchHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to get stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetNearby handles GET /api/branches/nearby
func (h *BranchHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lat is required")
		return
	}
	lng, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lng is required")
		return
	}

	radiusKm := 0.0
	if raw := query.Get("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid radius_km")
			return
		}
	}
	limit := parseIntParam(query.Get("limit"), 0)

	branches, err := h.service.Nearby(r.Context(), lat, lng, radiusKm, limit)
	if err != nil {
		respondWithAppError(w, err, "failed to find nearby branches")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"branches": branches,
		"count":    len(branches),
	})
}

// SearchBranches handles GET /api/branches/search
func (h *BranchHandler) SearchBranches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := repositories.BranchSearchParams{
		Query: query.Get("q"),
		Type:  query.Get("type"),
		Limit: parseIntParam(query.Get("limit"), 0),
	}

	branches, err := h.service.Search(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err, "failed to search branches")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"branches": branches,
		"count":    len(branches),
	})
}

// GetFeedbackLink handles GET /api/branches/{id}/feedback-link
func (h *BranchHandler) GetFeedbackLink(w http.ResponseWriter, r *http.Request) {
	branchID := r.PathValue("id")
	if branchID == "" {
		respondWithError(w, http.StatusBadRequest, "branch ID is required")
		return
	}

	link, err := h.service.FeedbackLink(r.Context(), branchID)
	if err != nil {
		respondWithAppError(w, err, "failed to build feedback link")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"branch_id": branchID,
		"url":       link,
	})
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps application error types to HTTP statuses.
func respondWithAppError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeUnavailable:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		case apperrors.ErrorTypeUpstream:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, fallback)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, fallback)
}
