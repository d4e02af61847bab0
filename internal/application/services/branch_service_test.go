package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

func nearbyFixture() *memBranchRepo {
	repo := newMemBranchRepo()
	repo.byExternalID["bank-api-1"] = &entities.Branch{
		ID: "close", Name: "Fountain Sq Branch", Type: "Branch",
		Location: entities.Location{Latitude: 40.3710, Longitude: 49.8350},
	}
	repo.byExternalID["bank-api-2"] = &entities.Branch{
		ID: "closer", Name: "Icherisheher ATM", Type: "ATM",
		Location: entities.Location{Latitude: 40.3700, Longitude: 49.8340},
	}
	repo.byExternalID["bank-api-3"] = &entities.Branch{
		ID: "ganja", Name: "Ganja Branch", Type: "Branch",
		Location: entities.Location{Latitude: 40.6828, Longitude: 46.3606},
	}
	return repo
}

func TestNearby_SortsByDistanceWithinRadius(t *testing.T) {
	svc := NewBranchService(nearbyFixture(), "http://localhost:3000")

	// query point at Icherisheher; Ganja is ~300 km away
	nearby, err := svc.Nearby(context.Background(), 40.3700, 49.8340, 5, 0)

	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "closer", nearby[0].ID)
	assert.Equal(t, "close", nearby[1].ID)
	assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)
}

func TestNearby_RespectsLimit(t *testing.T) {
	svc := NewBranchService(nearbyFixture(), "http://localhost:3000")

	nearby, err := svc.Nearby(context.Background(), 40.3700, 49.8340, 5, 1)

	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "closer", nearby[0].ID)
}

func TestNearby_RejectsBadCoordinates(t *testing.T) {
	svc := NewBranchService(nearbyFixture(), "http://localhost:3000")

	_, err := svc.Nearby(context.Background(), 91, 49, 5, 0)
	require.Error(t, err)

	_, err = svc.Nearby(context.Background(), 40, 181, 5, 0)
	require.Error(t, err)
}

func TestList_RejectsUnknownSort(t *testing.T) {
	svc := NewBranchService(newMemBranchRepo(), "http://localhost:3000")

	_, err := svc.List(context.Background(), repositories.BranchFilter{SortBy: "distance"})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestSearch_UnconfiguredIsUnavailable(t *testing.T) {
	svc := NewBranchService(newMemBranchRepo(), "http://localhost:3000")

	_, err := svc.Search(context.Background(), repositories.BranchSearchParams{Query: "atm"})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, appErr.Type)
}

func TestFeedbackLink(t *testing.T) {
	repo := newMemBranchRepo()
	repo.byExternalID["bank-api-1"] = &entities.Branch{ID: "b-1", Name: "Central Branch"}
	svc := NewBranchService(repo, "http://localhost:3000/")

	link, err := svc.FeedbackLink(context.Background(), "b-1")

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/feedback?branch=b-1", link)
}

func TestFeedbackLink_UnknownBranch(t *testing.T) {
	svc := NewBranchService(newMemBranchRepo(), "http://localhost:3000")

	_, err := svc.FeedbackLink(context.Background(), "missing")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}
