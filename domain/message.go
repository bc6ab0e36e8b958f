// Package domain contains core concepts of the relay.
// This file defines Message values and related rules.
// Messages are transient: they live for one routing call only.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one inbound chat message during routing.
// Room is a pure routing tag supplied per message; empty means global scope.
type Message struct {
	ID       uuid.UUID
	SenderID ConnectionID
	Content  string
	Room     string
	SentAt   time.Time
}
