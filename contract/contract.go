//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-relay/domain"
	"chat-relay/domain/event"
)

// EventSink is one client's outbound delivery channel.
// Consume must never block longer than the given context allows.
type EventSink interface {
	Consume(ctx context.Context, e event.ServerEvent) error
}

// IRegistry owns the live connection set and the session table.
// Every method is safe under concurrent connect/disconnect.
type IRegistry interface {
	Attach(id domain.ConnectionID, sink EventSink)
	Detach(id domain.ConnectionID)
	Record(id domain.ConnectionID, displayName string)
	Remove(id domain.ConnectionID) (string, bool)
	Name(id domain.ConnectionID) (string, bool)
	Tag(id domain.ConnectionID, room string)
	Live(id domain.ConnectionID) bool
	SinkFor(id domain.ConnectionID) (EventSink, bool)
	Peers(exclude domain.ConnectionID) []EventSink
	RoomPeers(room string, exclude domain.ConnectionID) []EventSink
	Counts() (connections int, sessions int)
}

// IRouter decides the delivery scope of every inbound event.
type IRouter interface {
	Announce(ctx context.Context, id domain.ConnectionID, displayName string) error
	RouteChat(ctx context.Context, id domain.ConnectionID, text, room string)
	RouteAIPrompt(ctx context.Context, id domain.ConnectionID, prompt string)
	Disconnect(ctx context.Context, id domain.ConnectionID)
}

// Generator is the external text-generation capability.
// A safety refusal is reported as an error wrapping errors.ErrContentBlocked.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Completer resolves any prompt to a user-safe string. It never fails.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
