package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvinq/branchfeedback/backend/internal/api/handlers"
	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

type stubBranchService struct {
	branches   []*entities.Branch
	branch     *entities.Branch
	stats      *repositories.BranchStats
	nearby     []*entities.BranchWithDistance
	link       string
	err        error
	lastFilter repositories.BranchFilter
}

func (s *stubBranchService) List(ctx context.Context, filter repositories.BranchFilter) ([]*entities.Branch, error) {
	s.lastFilter = filter
	return s.branches, s.err
}

func (s *stubBranchService) Get(ctx context.Context, id string) (*entities.Branch, error) {
	return s.branch, s.err
}

func (s *stubBranchService) Stats(ctx context.Context) (*repositories.BranchStats, error) {
	return s.stats, s.err
}

func (s *stubBranchService) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*entities.BranchWithDistance, error) {
	return s.nearby, s.err
}

func (s *stubBranchService) Search(ctx context.Context, params repositories.BranchSearchParams) ([]*entities.Branch, error) {
	return s.branches, s.err
}

func (s *stubBranchService) FeedbackLink(ctx context.Context, id string) (string, error) {
	return s.link, s.err
}

func TestBranchHandler_ListBranches(t *testing.T) {
	service := &stubBranchService{branches: []*entities.Branch{
		{ID: "b-1", Name: "Central Branch", Type: "Branch"},
		{ID: "b-2", Name: "Nizami ATM", Type: "ATM"},
	}}
	handler := handlers.NewBranchHandler(service)

	req := httptest.NewRequest("GET", "/api/branches?type=ATM&q=nizami&sort=rating&limit=10", nil)
	w := httptest.NewRecorder()

	handler.ListBranches(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ATM", service.lastFilter.Type)
	assert.Equal(t, "nizami", service.lastFilter.Query)
	assert.Equal(t, "rating", service.lastFilter.SortBy)
	assert.Equal(t, 10, service.lastFilter.Limit)

	var response struct {
		Branches []*entities.Branch `json:"branches"`
		Count    int                `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
}

func TestBranchHandler_GetBranch_NotFound(t *testing.T) {
	service := &stubBranchService{err: apperrors.NewNotFoundError("branch not found: ghost")}
	handler := handlers.NewBranchHandler(service)

	req := httptest.NewRequest("GET", "/api/branches/ghost", nil)
	req.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()

	handler.GetBranch(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBranchHandler_GetStats(t *testing.T) {
	service := &stubBranchService{stats: &repositories.BranchStats{
		TotalBranches: 12,
		TotalFeedback: 80,
		AverageRating: 4.1,
		ByType: map[string]repositories.BranchTypeStats{
			"Branch": {Count: 5, FeedbackCount: 70},
		},
	}}
	handler := handlers.NewBranchHandler(service)

	req := httptest.NewRequest("GET", "/api/branches/stats", nil)
	w := httptest.NewRecorder()

	handler.GetStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats repositories.BranchStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 12, stats.TotalBranches)
	assert.Equal(t, 5, stats.ByType["Branch"].Count)
}

func TestBranchHandler_GetNearby_RequiresCoordinates(t *testing.T) {
	handler := handlers.NewBranchHandler(&stubBranchService{})

	req := httptest.NewRequest("GET", "/api/branches/nearby?lng=49.86", nil)
	w := httptest.NewRecorder()

	handler.GetNearby(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBranchHandler_GetNearby(t *testing.T) {
	branch := &entities.Branch{ID: "b-1", Name: "Central Branch"}
	service := &stubBranchService{nearby: []*entities.BranchWithDistance{
		{Branch: branch, DistanceKm: 0.4},
	}}
	handler := handlers.NewBranchHandler(service)

	req := httptest.NewRequest("GET", "/api/branches/nearby?lat=40.37&lng=49.83&radius_km=2", nil)
	w := httptest.NewRecorder()

	handler.GetNearby(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Branches []json.RawMessage `json:"branches"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
}

func TestBranchHandler_SearchBranches_Unavailable(t *testing.T) {
	service := &stubBranchService{err: apperrors.NewUnavailableError("search is not configured")}
	handler := handlers.NewBranchHandler(service)

	req := httptest.NewRequest("GET", "/api/branches/search?q=atm", nil)
	w := httptest.NewRecorder()

	handler.SearchBranches(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBranchHandler_GetFeedbackLink(t *testing.T) {
	service := &stubBranchService{link: "http://localhost:3000/feedback?branch=b-1"}
	handler := handlers.NewBranchHandler(service)

	req := httptest.NewRequest("GET", "/api/branches/b-1/feedback-link", nil)
	req.SetPathValue("id", "b-1")
	w := httptest.NewRecorder()

	handler.GetFeedbackLink(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "b-1", response["branch_id"])
	assert.Equal(t, "http://localhost:3000/feedback?branch=b-1", response["url"])
}
