package main

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/elvinq/branchfeedback/backend/internal/application/services"
	"github.com/elvinq/branchfeedback/backend/pkg/config"
)

// Reports how many rows still carry the legacy "Branches" type and which of
// them do not look like actual branches. Read-only; run it before
// recategorize to see what would move.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var rows []struct {
		Name string `db:"name"`
		Type string `db:"type"`
	}
	err = db.Select(&rows, `SELECT name, type FROM branches WHERE type = 'Branches' ORDER BY name`)
	if err != nil {
		log.Fatalf("Failed to query branches: %v", err)
	}

	var misfiled []string
	for _, row := range rows {
		if !services.IsActualBranchName(row.Name) {
			misfiled = append(misfiled, row.Name)
		}
	}

	fmt.Printf("Rows with legacy type %q: %d\n", "Branches", len(rows))
	fmt.Printf("Actual branches among them: %d\n", len(rows)-len(misfiled))
	fmt.Printf("Candidates for recategorization: %d\n", len(misfiled))

	limit := len(misfiled)
	if limit > 15 {
		limit = 15
	}
	for _, name := range misfiled[:limit] {
		fmt.Printf("  - %s\n", name)
	}
	if len(misfiled) > limit {
		fmt.Printf("  ... and %d more\n", len(misfiled)-limit)
	}
}
