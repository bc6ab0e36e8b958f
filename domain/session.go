// Package domain contains core concepts of the relay.
// This file defines connection identity and presence.
// No runtime, network, or UI logic should be added here.
package domain

// ConnectionID identifies one live transport connection.
// Assigned at connect time, never reused after close.
type ConnectionID string

// Session binds a live connection to the display name it announced.
type Session struct {
	ConnectionID ConnectionID
	DisplayName  string
}
