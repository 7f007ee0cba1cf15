package events

import (
	"context"
)

// Publisher defines the interface for publishing domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Envelope) error
}
