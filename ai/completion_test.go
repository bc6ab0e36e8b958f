package ai

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/errors"
	"chat-relay/mocks"
)

func newTestCompleter(t *testing.T) (*Completer, *mocks.MockGenerator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockGenerator(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewCompleter(log, generator, time.Second), generator
}

func TestCompleter_GreetingFastPath_SkipsExternalCall(t *testing.T) {
	req := require.New(t)
	completer, generator := newTestCompleter(t)

	// Given the external service must never be called
	generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(0)

	// When trivial greetings arrive in any casing
	for _, prompt := range []string{"hi", "Hi", "hello", "Hello", "  HELLO  "} {
		req.Equal(WelcomeReply, completer.Complete(context.Background(), prompt))
	}
}

func TestCompleter_Success_ReturnsGeneratedTextVerbatim(t *testing.T) {
	req := require.New(t)
	completer, generator := newTestCompleter(t)

	generator.EXPECT().
		Generate(gomock.Any(), "Explain recursion").
		Return("Recursion is when a function calls itself.", nil).
		Times(1)

	got := completer.Complete(context.Background(), "Explain recursion")
	req.Equal("Recursion is when a function calls itself.", got)
}

func TestCompleter_SafetyRefusal_ReturnsFixedBlockedReply(t *testing.T) {
	req := require.New(t)
	completer, generator := newTestCompleter(t)

	generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", fmt.Errorf("%w: finish reason SAFETY", errors.ErrContentBlocked)).
		Times(1)

	// The refusal resolves to a string, never an error
	got := completer.Complete(context.Background(), "something hostile")
	req.Equal(BlockedReply, got)
}

func TestCompleter_GenericFailure_ReturnsFixedRetryReply(t *testing.T) {
	req := require.New(t)
	completer, generator := newTestCompleter(t)

	generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", fmt.Errorf("dial tcp: connection refused")).
		Times(1)

	got := completer.Complete(context.Background(), "anything")
	req.Equal(FailureReply, got)
}
