package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

// Sample pools for generated feedback. Names and phones follow the bank's
// Azerbaijani customer base.
var (
	sampleNames = []string{
		"Elvin Quliyev", "Aysel Mammadova", "Rashad Aliyev", "Nigar Hasanova",
		"Tural Huseynov", "Leyla Ismayilova", "Kamran Babayev", "Gunel Rzayeva",
		"Orkhan Safarov", "Sabina Karimova", "Farid Jafarov", "Aytac Valiyeva",
	}

	sampleEmails = []string{
		"elvin.q@mail.az", "aysel.m@gmail.com", "rashad.a@mail.ru",
		"nigar.h@gmail.com", "tural.h@mail.az", "leyla.i@yahoo.com",
		"kamran.b@gmail.com", "gunel.r@mail.az", "orkhan.s@gmail.com",
		"sabina.k@mail.ru", "farid.j@gmail.com", "aytac.v@mail.az",
	}

	samplePhones = []string{
		"+994501234567", "+994512345678", "+994552345671", "+994702345672",
		"+994512223344", "+994553334455", "+994704445566", "+994505556677",
	}

	sampleComments = []string{
		"Very fast service, the staff was helpful.",
		"Had to wait in line for twenty minutes.",
		"The branch is clean and well organized.",
		"Staff explained everything patiently.",
		"ATM in the lobby was out of order.",
		"Great experience, solved my issue in minutes.",
		"The queue system was confusing.",
		"Friendly staff but the hall was crowded.",
		"Opened an account quickly, no problems.",
		"Parking near the branch is difficult.",
		"Excellent consultation on my loan application.",
		"The air conditioning was not working.",
		"Everything went smoothly, thank you.",
		"Card replacement took longer than promised.",
		"Best branch in the city, always reliable.",
	}
)

// FeedbackSeeder generates plausible historical feedback for demo and staging
// databases.
type FeedbackSeeder struct {
	branchRepo   repositories.BranchRepository
	feedbackRepo repositories.FeedbackRepository
	rng          *rand.Rand
}

// SeedSummary reports what one seeding run produced.
type SeedSummary struct {
	Branches int
	Created  int
	ByRating map[int]int
}

// NewFeedbackSeeder creates a seeder. The rng is injected so runs can be made
// reproducible.
func NewFeedbackSeeder(branchRepo repositories.BranchRepository, feedbackRepo repositories.FeedbackRepository, rng *rand.Rand) *FeedbackSeeder {
	return &FeedbackSeeder{
		branchRepo:   branchRepo,
		feedbackRepo: feedbackRepo,
		rng:          rng,
	}
}

// Seed inserts 50-100 feedback rows spread over branch-typed locations and
// the trailing three months.
func (s *FeedbackSeeder) Seed(ctx context.Context) (*SeedSummary, error) {
	branches, err := s.branchRepo.List(ctx, repositories.BranchFilter{TypeContains: "Branch"})
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, apperrors.NewValidationError("no branches to seed feedback for")
	}

	now := time.Now().UTC()
	start := now.AddDate(0, -3, 0)
	count := 50 + s.rng.Intn(51)

	summary := &SeedSummary{
		Branches: len(branches),
		ByRating: make(map[int]int),
	}

	for i := 0; i < count; i++ {
		branch := branches[s.rng.Intn(len(branches))]
		rating := s.weightedRating()

		feedback := &entities.Feedback{
			ID:        uuid.New().String(),
			BranchID:  branch.ID,
			Rating:    rating,
			Category:  entities.FeedbackCategories[s.rng.Intn(len(entities.FeedbackCategories))],
			Comment:   sampleComments[s.rng.Intn(len(sampleComments))],
			CreatedAt: s.randomTimeBetween(start, now),
		}

		// roughly a third of submissions stay anonymous
		if s.rng.Float64() < 0.66 {
			idx := s.rng.Intn(len(sampleNames))
			feedback.CustomerName = sampleNames[idx]
			feedback.CustomerEmail = sampleEmails[idx]
			feedback.CustomerPhone = samplePhones[s.rng.Intn(len(samplePhones))]
		}

		if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
			return nil, fmt.Errorf("failed to seed feedback %d of %d: %w", i+1, count, err)
		}
		summary.Created++
		summary.ByRating[rating]++
	}

	return summary, nil
}

func (s *FeedbackSeeder) weightedRating() int {
	return ratingForRoll(s.rng.Float64())
}

// ratingForRoll skews generated ratings towards the positive end: 50% five
// stars, 25% four, 15% three, 5% two, 5% one.
func ratingForRoll(r float64) int {
	switch {
	case r < 0.5:
		return 5
	case r < 0.75:
		return 4
	case r < 0.9:
		return 3
	case r < 0.95:
		return 2
	default:
		return 1
	}
}

func (s *FeedbackSeeder) randomTimeBetween(start, end time.Time) time.Time {
	span := end.Sub(start)
	return start.Add(time.Duration(s.rng.Int63n(int64(span))))
}
