package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
)

// Router decides the fan-out scope of every inbound event: global
// broadcast excluding the sender, a single room tag excluding the sender,
// or point-to-point back to the requester. It owns no state of its own;
// presence lives in the injected registry.
type Router struct {
	log             *slog.Logger
	registry        contract.IRegistry
	completer       contract.Completer
	moderator       *moderation.Moderator
	deliveryTimeout time.Duration
}

func NewRouter(log *slog.Logger, registry contract.IRegistry,
	completer contract.Completer, moderator *moderation.Moderator,
	deliveryTimeout time.Duration) *Router {
	return &Router{
		log:             log,
		registry:        registry,
		completer:       completer,
		moderator:       moderator,
		deliveryTimeout: deliveryTimeout,
	}
}

// Announce records the session entry and notifies all other live
// connections. Re-announcing overwrites the previous name in place.
// Blank names never enter the session table.
func (rt *Router) Announce(ctx context.Context, id domain.ConnectionID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return errors.ErrNameRequired
	}
	rt.registry.Record(id, displayName)
	rt.log.Info("User announced", "connection_id", id, "name", displayName)
	rt.fanOut(ctx, rt.registry.Peers(id), event.UserJoined{DisplayName: displayName})
	return nil
}

// RouteChat delivers a chat message per its routing tag. An empty room
// means global scope. The supplied room value re-tags the sender's
// connection each call; there is no persistent membership.
// Announcement is not required to chat.
func (rt *Router) RouteChat(ctx context.Context, id domain.ConnectionID, text, room string) {
	text = strings.TrimSpace(text)
	if text == "" {
		rt.log.Debug("Dropping empty chat message", "connection_id", id)
		return
	}

	sanitized, foundWords := rt.moderator.Censor(text)
	if len(foundWords) > 0 {
		info := whatlanggo.Detect(text)
		rt.log.Warn("Censored chat content",
			"connection_id", id,
			"lang", info.Lang.Iso6391(),
			"words", foundWords)
	}

	rt.registry.Tag(id, room)

	evt := event.Chat{SenderName: rt.senderName(id), Message: sanitized}
	if room == "" {
		rt.fanOut(ctx, rt.registry.Peers(id), evt)
		return
	}
	rt.fanOut(ctx, rt.registry.RoomPeers(room, id), evt)
}

// RouteAIPrompt forwards the prompt to the completion adapter and delivers
// the response only to the originating connection. The call runs in its
// own goroutine so the connection stays responsive while the completion is
// pending. Disconnecting does not cancel the request; an undeliverable
// response is discarded.
func (rt *Router) RouteAIPrompt(ctx context.Context, id domain.ConnectionID, prompt string) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		rt.log.Debug("Dropping empty prompt", "connection_id", id)
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		text := rt.completer.Complete(detached, prompt)
		sink, ok := rt.registry.SinkFor(id)
		if !ok {
			rt.log.Debug("Requester gone, discarding AI response", "connection_id", id)
			return
		}
		rt.deliver(detached, sink, event.AIResponse{Text: text})
	}()
}

// Disconnect purges the session entry and notifies peers only when the
// connection had announced a name. A nameless disconnect stays silent.
func (rt *Router) Disconnect(ctx context.Context, id domain.ConnectionID) {
	name, announced := rt.registry.Remove(id)
	rt.registry.Detach(id)
	if !announced {
		rt.log.Debug("Connection closed before announcing", "connection_id", id)
		return
	}
	rt.log.Info("User left", "connection_id", id, "name", name)
	rt.fanOut(ctx, rt.registry.Peers(id), event.UserLeft{DisplayName: name})
}

func (rt *Router) senderName(id domain.ConnectionID) string {
	if name, ok := rt.registry.Name(id); ok {
		return name
	}
	return string(id)
}

// fanOut is fire-and-forget: a slow or full sink drops the event for that
// one receiver, it never stalls delivery to the others.
func (rt *Router) fanOut(ctx context.Context, sinks []contract.EventSink, evt event.ServerEvent) {
	lo.ForEach(sinks, func(sink contract.EventSink, _ int) {
		rt.deliver(ctx, sink, evt)
	})
}

func (rt *Router) deliver(ctx context.Context, sink contract.EventSink, evt event.ServerEvent) {
	ctx, cancel := context.WithTimeout(ctx, rt.deliveryTimeout)
	defer cancel()
	if err := sink.Consume(ctx, evt); err != nil {
		rt.log.Debug("Delivery skipped", "event", evt.EventName(), "error", err)
	}
}
