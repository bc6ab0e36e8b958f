// Package ai wraps the external text-generation capability behind an
// adapter that always resolves to a user-safe string.
package ai

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"chat-relay/contract"
	"chat-relay/errors"
)

// Fixed replies. Refusal and failure details never reach the client;
// they go to the log for operator diagnostics only.
const (
	WelcomeReply = "Welcome to CareerHelp. How may i help you?"
	BlockedReply = "The generated content was blocked due to safety concerns. Please try a different prompt."
	FailureReply = "An error occurred while generating content. Please try again later."
)

// Completer turns prompts into responses. Trivial greetings short-circuit
// without touching the external service; everything else runs against the
// generator under a bounded timeout.
type Completer struct {
	log       *slog.Logger
	generator contract.Generator
	timeout   time.Duration
}

func NewCompleter(log *slog.Logger, generator contract.Generator, timeout time.Duration) *Completer {
	return &Completer{log: log, generator: generator, timeout: timeout}
}

// Complete resolves every call path to a string; no failure of the
// external service propagates to the router.
func (c *Completer) Complete(ctx context.Context, prompt string) string {
	if isGreeting(prompt) {
		return WelcomeReply
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.generator.Generate(ctx, prompt)
	switch {
	case err == nil:
		return text
	case stderrors.Is(err, errors.ErrContentBlocked):
		c.log.Warn("Generation refused by safety filters", "detail", err)
		return BlockedReply
	default:
		c.log.Error("Generation failed", "error", err)
		return FailureReply
	}
}

func isGreeting(prompt string) bool {
	switch strings.ToLower(strings.TrimSpace(prompt)) {
	case "hi", "hello":
		return true
	}
	return false
}
