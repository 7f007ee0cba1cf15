package events

import (
	"context"
	"sync"
)

// NoOpPublisher is a publisher that drops every event.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, event Envelope) error {
	return nil
}

// Recorder keeps published events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

// Publish records the event.
func (r *Recorder) Publish(ctx context.Context, event Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events of the given type, or all of them if eventType is empty.
func (r *Recorder) Events(eventType string) []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Envelope
	for _, e := range r.events {
		if eventType == "" || e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
