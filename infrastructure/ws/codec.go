package ws

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"chat-relay/domain/event"
	"chat-relay/errors"
)

var validate = validator.New()

// Inbound is the single client-to-server envelope. Which fields matter
// depends on Type; unknown types are rejected by validation.
type Inbound struct {
	Type    string `json:"type" validate:"required,oneof=announce chat aiPrompt"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
	Room    string `json:"room,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
}

// DecodeInbound parses and validates one frame. Malformed input is an
// error for the caller to drop silently, never to relay.
func DecodeInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, err
	}
	if err := validate.Struct(in); err != nil {
		return Inbound{}, err
	}
	return in, nil
}

// outbound is the server-to-client envelope.
type outbound struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId,omitempty"`
	SenderName   string `json:"senderName,omitempty"`
	Message      string `json:"message,omitempty"`
	Text         string `json:"text,omitempty"`
	Name         string `json:"name,omitempty"`
}

func EncodeEvent(e event.ServerEvent) ([]byte, error) {
	var out outbound
	switch evt := e.(type) {
	case event.Welcome:
		out = outbound{Type: evt.EventName(), ConnectionID: evt.ConnectionID}
	case event.Chat:
		out = outbound{Type: evt.EventName(), SenderName: evt.SenderName, Message: evt.Message}
	case event.AIResponse:
		out = outbound{Type: evt.EventName(), Text: evt.Text}
	case event.UserJoined:
		out = outbound{Type: evt.EventName(), Name: evt.DisplayName}
	case event.UserLeft:
		out = outbound{Type: evt.EventName(), Name: evt.DisplayName}
	default:
		return nil, fmt.Errorf("%w: %T", errors.ErrUnknownEvent, e)
	}
	return json.Marshal(out)
}
