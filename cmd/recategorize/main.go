package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/elvinq/branchfeedback/backend/internal/adapters/database"
	"github.com/elvinq/branchfeedback/backend/internal/application/services"
	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/postgres"
	"github.com/elvinq/branchfeedback/backend/pkg/config"
)

// Moves legacy "Branches" rows that are not actual branches to the
// "Service Points" type, then prints the resulting type distribution.
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

	repo := database.NewBranchAdapter(pgClient)
	ctx := context.Background()

	branches, err := repo.List(ctx, repositories.BranchFilter{Type: entities.BranchTypeLegacyBranches})
	if err != nil {
		log.Fatalf("Failed to list branches: %v", err)
	}

	moved := 0
	for _, branch := range branches {
		if !services.ShouldRecategorizeAsServicePoint(branch.Name) {
			continue
		}
		if err := repo.UpdateType(ctx, branch.ID, entities.BranchTypeServicePoint); err != nil {
			log.Fatalf("Failed to update branch %s: %v", branch.ID, err)
		}
		fmt.Printf("Moved to %s: %s\n", entities.BranchTypeServicePoint, branch.Name)
		moved++
	}

	fmt.Printf("\nRecategorized %d of %d legacy rows\n\n", moved, len(branches))

	stats, err := repo.Stats(ctx)
	if err != nil {
		log.Fatalf("Failed to load stats: %v", err)
	}

	types := make([]string, 0, len(stats.ByType))
	for branchType := range stats.ByType {
		types = append(types, branchType)
	}
	sort.Strings(types)

	fmt.Println("Type distribution:")
	for _, branchType := range types {
		fmt.Printf("  %-18s %d\n", branchType, stats.ByType[branchType].Count)
	}
}
