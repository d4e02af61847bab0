package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

func feedbackFixture() (*FeedbackService, *memFeedbackRepo) {
	branchRepo := newMemBranchRepo()
	branchRepo.byExternalID["bank-api-1"] = &entities.Branch{ID: "b-1", Name: "Central Branch", Type: "Branch"}
	feedbackRepo := &memFeedbackRepo{}
	return NewFeedbackService(feedbackRepo, branchRepo), feedbackRepo
}

func TestFeedbackCreate_AssignsIDAndTimestamp(t *testing.T) {
	svc, repo := feedbackFixture()

	feedback := &entities.Feedback{
		BranchID: "b-1",
		Rating:   5,
		Category: "Service",
		Comment:  "Quick and friendly.",
	}
	err := svc.Create(context.Background(), feedback)

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.NotEmpty(t, feedback.ID)
	assert.False(t, feedback.CreatedAt.IsZero())
}

func TestFeedbackCreate_RejectsBadRating(t *testing.T) {
	svc, repo := feedbackFixture()

	for _, rating := range []int{0, -1, 6} {
		err := svc.Create(context.Background(), &entities.Feedback{BranchID: "b-1", Rating: rating})

		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	}
	assert.Empty(t, repo.created)
}

func TestFeedbackCreate_UnknownBranch(t *testing.T) {
	svc, repo := feedbackFixture()

	err := svc.Create(context.Background(), &entities.Feedback{BranchID: "missing", Rating: 4})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
	assert.Empty(t, repo.created)
}

func TestFeedbackListByBranch_EmptyIsNotNil(t *testing.T) {
	svc, _ := feedbackFixture()

	items, err := svc.ListByBranch(context.Background(), "b-1", 10, 0)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
