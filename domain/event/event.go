// Package event defines the server-to-client event vocabulary.
package event

// ServerEvent is anything the relay may deliver to a connected client.
type ServerEvent interface {
	EventName() string
}

// Welcome carries the connection identifier back to its owner right
// after the upgrade. Informational only.
type Welcome struct {
	ConnectionID string
}

func (Welcome) EventName() string { return "welcome" }

// Chat is a relayed chat message. SenderName falls back to the sender's
// connection id when the sender never announced.
type Chat struct {
	SenderName string
	Message    string
}

func (Chat) EventName() string { return "chat" }

// AIResponse is delivered only to the connection that sent the prompt.
type AIResponse struct {
	Text string
}

func (AIResponse) EventName() string { return "aiResponse" }

// UserJoined is broadcast to everyone but the announcer.
type UserJoined struct {
	DisplayName string
}

func (UserJoined) EventName() string { return "userJoined" }

// UserLeft is broadcast after a named connection closes.
type UserLeft struct {
	DisplayName string
}

func (UserLeft) EventName() string { return "userLeft" }
