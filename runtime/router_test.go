package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
)

type recordSink struct {
	events chan event.ServerEvent
}

func newRecordSink() *recordSink {
	return &recordSink{events: make(chan event.ServerEvent, 16)}
}

func (s *recordSink) Consume(_ context.Context, e event.ServerEvent) error {
	s.events <- e
	return nil
}

func (s *recordSink) next(t *testing.T) event.ServerEvent {
	t.Helper()
	select {
	case e := <-s.events:
		return e
	case <-time.After(time.Second):
		t.Fatal("expected an event, got none")
		return nil
	}
}

func (s *recordSink) expectNone(t *testing.T) {
	t.Helper()
	select {
	case e := <-s.events:
		t.Fatalf("expected no event, got %#v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

type stubCompleter struct {
	reply string
	gate  chan struct{}
}

func (c *stubCompleter) Complete(_ context.Context, _ string) string {
	if c.gate != nil {
		<-c.gate
	}
	return c.reply
}

func newTestRouter(t *testing.T, registry *Registry, completer *stubCompleter, bannedWords []string) *Router {
	t.Helper()
	moderator, err := moderation.NewModerator(bannedWords, '*')
	require.NoError(t, err)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewRouter(log, registry, completer, moderator, time.Second)
}

func connect(registry *Registry) (domain.ConnectionID, *recordSink) {
	id := domain.ConnectionID(uuid.NewString())
	sink := newRecordSink()
	registry.Attach(id, sink)
	return id, sink
}

func TestRouter_RouteChat_GlobalBroadcastExcludesSender(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)

	sender, senderSink := connect(registry)
	_, peerSink1 := connect(registry)
	_, peerSink2 := connect(registry)
	_ = router.Announce(context.Background(), sender, "Alice")
	peerSink1.next(t) // drain join notifications
	peerSink2.next(t)

	// When the sender posts without a room
	router.RouteChat(context.Background(), sender, "Hello everyone", "")

	// Then every peer receives it and the sender does not
	for _, sink := range []*recordSink{peerSink1, peerSink2} {
		evt, ok := sink.next(t).(event.Chat)
		req.True(ok)
		req.Equal("Alice", evt.SenderName)
		req.Equal("Hello everyone", evt.Message)
	}
	senderSink.expectNone(t)
}

func TestRouter_RouteChat_RoomScopeExcludesUntagged(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)

	sender, senderSink := connect(registry)
	tagged, taggedSink := connect(registry)
	_, untaggedSink := connect(registry)

	// Given the peer placed itself into room r1 with a prior message
	router.RouteChat(context.Background(), tagged, "scoping in", "r1")

	// When the sender posts into r1
	router.RouteChat(context.Background(), sender, "room only", "r1")

	// Then only the tagged peer receives it
	evt, ok := taggedSink.next(t).(event.Chat)
	req.True(ok)
	req.Equal("room only", evt.Message)
	untaggedSink.expectNone(t)
	senderSink.expectNone(t)
}

func TestRouter_RouteChat_EmptyTextNeverRouted(t *testing.T) {
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)

	sender, _ := connect(registry)
	_, peerSink := connect(registry)

	router.RouteChat(context.Background(), sender, "   \t  ", "")

	peerSink.expectNone(t)
}

func TestRouter_RouteChat_WithoutAnnounceUsesConnectionID(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)

	sender, _ := connect(registry)
	_, peerSink := connect(registry)

	// When an unannounced connection chats
	router.RouteChat(context.Background(), sender, "lurking", "")

	// Then routing proceeds, falling back to the connection id
	evt, ok := peerSink.next(t).(event.Chat)
	req.True(ok)
	req.Equal(string(sender), evt.SenderName)
}

func TestRouter_RouteChat_CensorsBannedWords(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, []string{"leek"})

	sender, _ := connect(registry)
	_, peerSink := connect(registry)

	router.RouteChat(context.Background(), sender, "a leek in the chat", "")

	evt, ok := peerSink.next(t).(event.Chat)
	req.True(ok)
	req.Equal("a **** in the chat", evt.Message)
}

func TestRouter_Announce_NotifiesOnlyOthers(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)

	announcer, announcerSink := connect(registry)
	_, peerSink := connect(registry)

	err := router.Announce(context.Background(), announcer, "  Carol  ")
	req.NoError(err)

	evt, ok := peerSink.next(t).(event.UserJoined)
	req.True(ok)
	req.Equal("Carol", evt.DisplayName)
	announcerSink.expectNone(t)
}

func TestRouter_Announce_RejectsBlankName(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)
	announcer, _ := connect(registry)
	_, peerSink := connect(registry)

	err := router.Announce(context.Background(), announcer, "   ")

	req.ErrorIs(err, errors.ErrNameRequired)
	peerSink.expectNone(t)
}

func TestRouter_Disconnect_AfterAnnounceBroadcastsLeave(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)

	leaver, _ := connect(registry)
	_, peerSink := connect(registry)
	_ = router.Announce(context.Background(), leaver, "Dave")
	peerSink.next(t) // drain join notification

	router.Disconnect(context.Background(), leaver)

	evt, ok := peerSink.next(t).(event.UserLeft)
	req.True(ok)
	req.Equal("Dave", evt.DisplayName)
	req.False(registry.Live(leaver))
}

func TestRouter_Disconnect_WithoutAnnounceStaysSilent(t *testing.T) {
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{}, nil)

	leaver, _ := connect(registry)
	_, peerSink := connect(registry)

	// When a connection that never announced closes
	router.Disconnect(context.Background(), leaver)

	// Then no leave notification is emitted
	peerSink.expectNone(t)
}

func TestRouter_RouteAIPrompt_RespondsOnlyToRequester(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := newTestRouter(t, registry, &stubCompleter{reply: "42"}, nil)

	requester, requesterSink := connect(registry)
	_, peerSink := connect(registry)

	router.RouteAIPrompt(context.Background(), requester, "meaning of life?")

	evt, ok := requesterSink.next(t).(event.AIResponse)
	req.True(ok)
	req.Equal("42", evt.Text)
	peerSink.expectNone(t)
}

func TestRouter_RouteAIPrompt_DiscardsResponseForGoneConnection(t *testing.T) {
	registry := NewRegistry()
	gate := make(chan struct{})
	router := newTestRouter(t, registry, &stubCompleter{reply: "late", gate: gate}, nil)

	requester, requesterSink := connect(registry)

	// Given a pending completion when the requester disconnects
	router.RouteAIPrompt(context.Background(), requester, "slow one")
	router.Disconnect(context.Background(), requester)
	close(gate)

	// Then the late response is dropped silently
	requesterSink.expectNone(t)
}
