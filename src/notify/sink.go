// Package notify is the real-time push boundary: events are published to a
// per-user channel (the user's email) and delivered at most once to whatever
// subscribers happen to be connected. Delivery is best-effort; an empty
// channel is not an error.
package notify

import "context"

// Sink publishes events toward connected clients. Implementations must never
// block request handling on slow consumers and must swallow delivery errors.
type Sink interface {
	// Publish sends an event to every subscriber of one channel.
	Publish(ctx context.Context, channel, event string, payload any)

	// Broadcast sends an event to every connected subscriber.
	Broadcast(ctx context.Context, event string, payload any)
}

// Event is the wire envelope written to websocket clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// NopSink discards everything. Used in tests.
type NopSink struct{}

func (NopSink) Publish(context.Context, string, string, any) {}
func (NopSink) Broadcast(context.Context, string, any)       {}
