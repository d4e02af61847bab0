package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/elvinq/branchfeedback/backend/internal/adapters/providers/geolocation"
	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

const (
	defaultNearbyRadiusKm = 5.0
	defaultNearbyLimit    = 20
)

// BranchService serves branch reads for the dashboard and public site.
type BranchService struct {
	branchRepo    repositories.BranchRepository
	searchRepo    repositories.BranchSearchRepository
	publicBaseURL string
}

// NewBranchService creates a new branch service. publicBaseURL is the
// customer-facing site used to build feedback links.
func NewBranchService(branchRepo repositories.BranchRepository, publicBaseURL string) *BranchService {
	return &BranchService{
		branchRepo:    branchRepo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// SetSearchRepository enables keyword search.
func (s *BranchService) SetSearchRepository(repo repositories.BranchSearchRepository) {
	s.searchRepo = repo
}

// List returns branches matching the filter.
func (s *BranchService) List(ctx context.Context, filter repositories.BranchFilter) ([]*entities.Branch, error) {
	switch filter.SortBy {
	case "", repositories.BranchSortByName, repositories.BranchSortByRating, repositories.BranchSortByFeedback:
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid sort: %s", filter.SortBy))
	}

	branches, err := s.branchRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if branches == nil {
		branches = []*entities.Branch{}
	}
	return branches, nil
}

// Get returns one branch with its feedback aggregates.
func (s *BranchService) Get(ctx context.Context, id string) (*entities.Branch, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("branch id is required")
	}
	return s.branchRepo.GetByID(ctx, id)
}

// Stats returns the dashboard aggregates.
func (s *BranchService) Stats(ctx context.Context) (*repositories.BranchStats, error) {
	return s.branchRepo.Stats(ctx)
}

// Nearby returns branches within radiusKm of the given point, closest first.
// The network is small enough to rank in memory.
func (s *BranchService) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*entities.BranchWithDistance, error) {
	if lat < -90 || lat > 90 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid latitude: %f", lat))
	}
	if lng < -180 || lng > 180 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid longitude: %f", lng))
	}
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}

	branches, err := s.branchRepo.List(ctx, repositories.BranchFilter{})
	if err != nil {
		return nil, err
	}

	origin := entities.Location{Latitude: lat, Longitude: lng}
	nearby := []*entities.BranchWithDistance{}
	for _, branch := range branches {
		distance := geolocation.Distance(origin, branch.Location)
		if distance > radiusKm {
			continue
		}
		nearby = append(nearby, &entities.BranchWithDistance{
			Branch:     branch,
			DistanceKm: distance,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

// Search runs a keyword search against the search index.
func (s *BranchService) Search(ctx context.Context, params repositories.BranchSearchParams) ([]*entities.Branch, error) {
	if s.searchRepo == nil {
		return nil, apperrors.NewUnavailableError("search is not configured")
	}
	return s.searchRepo.Search(ctx, params)
}

// FeedbackLink builds the public feedback form URL for one branch, verifying
// the branch exists first.
func (s *BranchService) FeedbackLink(ctx context.Context, id string) (string, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/feedback?branch=%s", s.publicBaseURL, url.QueryEscape(branch.ID)), nil
}
