package repositories

import (
	"context"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
)

// BranchRepository defines the interface for branch data operations
type BranchRepository interface {
	// Create creates a new branch (manual admin path; sync uses Upsert)
	Create(ctx context.Context, branch *entities.Branch) error

	// GetByID retrieves a branch by ID
	GetByID(ctx context.Context, id string) (*entities.Branch, error)

	// Upsert inserts or updates a branch keyed on its external id and
	// reports whether a new row was created. The id and external id of an
	// existing row are never rewritten.
	Upsert(ctx context.Context, branch *entities.Branch) (created bool, err error)

	// List retrieves branches with filters, including feedback aggregates
	List(ctx context.Context, filter BranchFilter) ([]*entities.Branch, error)

	// UpdateType rewrites the categorical type of one branch
	UpdateType(ctx context.Context, id, branchType string) error

	// Stats returns dashboard aggregates over branches and feedback
	Stats(ctx context.Context) (*BranchStats, error)
}

// BranchSearchRepository defines the interface for branch search operations (e.g. Typesense)
type BranchSearchRepository interface {
	// InitSchema ensures the search collection exists
	InitSchema(ctx context.Context) error

	// Index upserts a branch into the search index
	Index(ctx context.Context, branch *entities.Branch) error

	// Search performs a keyword search over indexed branches
	Search(ctx context.Context, params BranchSearchParams) ([]*entities.Branch, error)

	// Delete removes a branch from the index
	Delete(ctx context.Context, id string) error
}

// Sort orders accepted by BranchFilter.SortBy
const (
	BranchSortByName     = "name"
	BranchSortByRating   = "rating"
	BranchSortByFeedback = "feedback"
)

// BranchFilter defines filters for listing branches
type BranchFilter struct {
	// Type matches the type column exactly when set
	Type string

	// TypeContains matches rows whose type contains the substring
	// (the seeder selects branches with TypeContains "Branch")
	TypeContains string

	// Query matches name or address case-insensitively
	Query string

	SortBy string
	Limit  int
	Offset int
}

// BranchSearchParams defines parameters for keyword search
type BranchSearchParams struct {
	Query string
	Type  string
	Limit int
}

// BranchTypeStats holds per-type dashboard counters
type BranchTypeStats struct {
	Count         int `json:"count"`
	FeedbackCount int `json:"feedback_count"`
}

// BranchStats holds the dashboard header aggregates
type BranchStats struct {
	TotalBranches int                        `json:"total_branches"`
	TotalFeedback int                        `json:"total_feedback"`
	AverageRating float64                    `json:"average_rating"`
	ByType        map[string]BranchTypeStats `json:"by_type"`
}
