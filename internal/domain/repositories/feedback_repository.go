package repositories

import (
	"context"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
)

// FeedbackRepository defines the interface for feedback operations.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entities.Feedback) error

	// ListByBranch returns feedback for one branch, newest first
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entities.Feedback, error)

	// RatingDistribution returns the number of feedback rows per rating value
	RatingDistribution(ctx context.Context) (map[int]int, error)
}
