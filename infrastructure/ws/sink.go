package ws

import (
	"context"

	"chat-relay/domain/event"
)

// Sink buffers outbound events for one connection. Consume is called by
// the router during fan-out; the write pump drains the channel onto the
// socket. A full buffer drops the event: delivery is best effort and one
// slow client must not stall the others.
type Sink struct {
	events chan event.ServerEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{events: make(chan event.ServerEvent, bufferSize)}
}

func (s *Sink) Consume(ctx context.Context, e event.ServerEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Backpressure: receiver is not keeping up, drop.
		return nil
	}
}

func (s *Sink) Events() <-chan event.ServerEvent {
	return s.events
}
