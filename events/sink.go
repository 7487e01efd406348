package events

import "context"

// Sink is an event-sink interface. The core does not use it: parent-visible
// events are delivered through conversation.Session.SendEvent.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Send(ctx context.Context, event Event) error { return f(ctx, event) }
