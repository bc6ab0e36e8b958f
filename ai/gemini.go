package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"chat-relay/errors"
)

// Gemini implements contract.Generator against the Gemini API.
// Each prompt is an independent one-shot request; no conversation state
// is kept between calls.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate runs one completion. A safety block is reported as an error
// wrapping errors.ErrContentBlocked so the adapter can map it to the
// fixed user-facing reply.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.ErrEmptyGeneration
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason %s",
			errors.ErrContentBlocked, resp.Candidates[0].FinishReason)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.ErrEmptyGeneration
	}
	return text, nil
}
