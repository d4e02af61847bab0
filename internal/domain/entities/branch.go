package entities

import "time"

// Branch types produced by the feed classifier. The column is an open string
// set: legacy imports also left "Branches" and "Service Points" behind.
const (
	BranchTypeBranch          = "Branch"
	BranchTypeATM             = "ATM"
	BranchTypePaymentTerminal = "Payment Terminal"

	BranchTypeLegacyBranches = "Branches"
	BranchTypeServicePoint   = "Service Points"
)

// Branch represents a persisted physical bank location (branch, ATM or
// payment terminal).
type Branch struct {
	ID string `json:"id" db:"id"`

	// ExternalID is the namespaced upstream feed id ("bank-api-<id>").
	// Empty for manually created rows; unique when present and used as the
	// idempotency key for sync upserts.
	ExternalID string `json:"external_id,omitempty" db:"external_id"`

	Name     string   `json:"name" db:"name"`
	Address  string   `json:"address" db:"address"`
	Type     string   `json:"type" db:"type"`
	Services string   `json:"services" db:"services"`
	Location Location `json:"location" db:"-"`

	// Feedback aggregates, populated on list/read paths only.
	FeedbackCount int     `json:"feedback_count" db:"feedback_count"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// BranchWithDistance is a branch annotated with the distance from a query
// point, used by the nearby endpoint.
type BranchWithDistance struct {
	*Branch
	DistanceKm float64 `json:"distance_km"`
}
