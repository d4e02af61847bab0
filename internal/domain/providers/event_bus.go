package providers

import (
	"context"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.BranchEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BranchEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelBranchUpdates carries network-wide events (sync runs)
	EventChannelBranchUpdates = "branches:updates"

	// EventChannelBranchPrefix is the prefix for branch-specific channels
	EventChannelBranchPrefix = "branch:"
)

// GetBranchChannel returns the channel name for a specific branch
func GetBranchChannel(branchID string) string {
	return EventChannelBranchPrefix + branchID
}
