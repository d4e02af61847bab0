package database

import (
	"time"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
)

var sampleTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func branchColumns() []string {
	return []string{
		"id", "external_id", "name", "address", "type", "services",
		"latitude", "longitude", "feedback_count", "average_rating",
		"created_at", "updated_at",
	}
}

func sampleBranch() *entities.Branch {
	return &entities.Branch{
		ID:         "b-1",
		ExternalID: "bank-api-42",
		Name:       "Nizami ATM",
		Address:    "Nizami St 5",
		Type:       entities.BranchTypeATM,
		Services:   "Cash withdrawal",
		Location: entities.Location{
			Latitude:  40.40,
			Longitude: 49.86,
		},
	}
}
