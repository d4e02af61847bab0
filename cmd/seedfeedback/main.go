package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/elvinq/branchfeedback/backend/internal/adapters/database"
	"github.com/elvinq/branchfeedback/backend/internal/application/services"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/postgres"
	"github.com/elvinq/branchfeedback/backend/pkg/config"
)

// Seeds 50-100 plausible feedback rows over branch-typed locations for demo
// and staging databases.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	branchRepo := database.NewBranchAdapter(pgClient)
	feedbackRepo := database.NewFeedbackAdapter(pgClient)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	seeder := services.NewFeedbackSeeder(branchRepo, feedbackRepo, rng)
	summary, err := seeder.Seed(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Printf("Seeded %d feedback rows across %d branches\n\n", summary.Created, summary.Branches)
	fmt.Println("Rating distribution:")
	for rating := 5; rating >= 1; rating-- {
		fmt.Printf("  %d stars: %d\n", rating, summary.ByRating[rating])
	}
}
