package entities

import "time"

// Feedback captures a customer rating/comment tied to one branch.
// Rows are insert-only; they are never updated after submission.
type Feedback struct {
	ID            string    `json:"id" db:"id"`
	BranchID      string    `json:"branch_id" db:"branch_id"`
	Rating        int       `json:"rating" db:"rating"`
	Category      string    `json:"category" db:"category"`
	Comment       string    `json:"comment" db:"comment"`
	CustomerName  string    `json:"customer_name,omitempty" db:"customer_name"`
	CustomerEmail string    `json:"customer_email,omitempty" db:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty" db:"customer_phone"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Suggested feedback categories shown by the submission form and used by the
// seeder. The column itself is free text.
var FeedbackCategories = []string{
	"Service",
	"Cleanliness",
	"Speed",
	"Staff Behavior",
	"Facilities",
	"Overall Experience",
}
