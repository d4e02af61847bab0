package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/providers"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/observability"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

// FeedbackService handles customer feedback submissions and reads.
type FeedbackService struct {
	repo       repositories.FeedbackRepository
	branchRepo repositories.BranchRepository
	eventBus   providers.EventBus
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo repositories.FeedbackRepository, branchRepo repositories.BranchRepository) *FeedbackService {
	return &FeedbackService{
		repo:       repo,
		branchRepo: branchRepo,
	}
}

// SetEventBus enables publishing feedback events.
func (s *FeedbackService) SetEventBus(bus providers.EventBus) {
	s.eventBus = bus
}

// Create validates and stores a feedback submission. The referenced branch
// must exist.
func (s *FeedbackService) Create(ctx context.Context, feedback *entities.Feedback) error {
	if feedback.BranchID == "" {
		return apperrors.NewValidationError("branch_id is required")
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5")
	}

	if _, err := s.branchRepo.GetByID(ctx, feedback.BranchID); err != nil {
		return err
	}

	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		return err
	}

	s.publishFeedbackReceived(ctx, feedback)
	return nil
}

// ListByBranch returns a branch's feedback, newest first.
func (s *FeedbackService) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entities.Feedback, error) {
	if branchID == "" {
		return nil, apperrors.NewValidationError("branch_id is required")
	}

	items, err := s.repo.ListByBranch(ctx, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entities.Feedback{}
	}
	return items, nil
}

// RatingDistribution returns feedback counts per rating value.
func (s *FeedbackService) RatingDistribution(ctx context.Context) (map[int]int, error) {
	return s.repo.RatingDistribution(ctx)
}

func (s *FeedbackService) publishFeedbackReceived(ctx context.Context, feedback *entities.Feedback) {
	if s.eventBus == nil {
		return
	}

	event := entities.NewBranchEvent(feedback.BranchID, entities.BranchEventTypeFeedbackReceived, map[string]interface{}{
		"feedback_id": feedback.ID,
		"rating":      feedback.Rating,
		"category":    feedback.Category,
	})
	if err := s.eventBus.Publish(ctx, providers.GetBranchChannel(feedback.BranchID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to publish feedback event")
	}
}
