package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// BranchEventType represents the type of branch event
type BranchEventType string

const (
	// BranchEventTypeSyncCompleted is emitted once after a feed sync run.
	BranchEventTypeSyncCompleted BranchEventType = "sync_completed"

	// BranchEventTypeFeedbackReceived is emitted when a customer submits feedback.
	BranchEventTypeFeedbackReceived BranchEventType = "feedback_received"
)

// BranchEvent represents a real-time update event for the branch network
type BranchEvent struct {
	ID        string                 `json:"id"`
	BranchID  string                 `json:"branch_id,omitempty"`
	EventType BranchEventType        `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// NewBranchEvent creates a new branch event
func NewBranchEvent(branchID string, eventType BranchEventType, payload map[string]interface{}) *BranchEvent {
	return &BranchEvent{
		ID:        generateEventID(),
		BranchID:  branchID,
		EventType: eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
