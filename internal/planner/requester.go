// Package planner turns a free-text prompt into a validated mashup plan by
// asking a generative model and treating its answer as untrusted input.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mixmateai/mixmate/internal/domain"
)

// ChatClient is the generative model the requester talks to.
type ChatClient interface {
	Ping(ctx context.Context) error
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Requester produces structurally valid mashup plans.
type Requester struct {
	client ChatClient
}

// NewRequester creates a requester backed by the given model client.
func NewRequester(client ChatClient) *Requester {
	return &Requester{client: client}
}

// CheckLiveness verifies the model service is reachable.
func (r *Requester) CheckLiveness(ctx context.Context) error {
	if err := r.client.Ping(ctx); err != nil {
		slog.Error("Ollama connection failed", "error", err)
		return err
	}
	slog.Info("Ollama connection verified")
	return nil
}

// RequestPlan asks the model for a plan matching the prompt.
func (r *Requester) RequestPlan(ctx context.Context, prompt string) (*domain.MashupPlan, error) {
	if err := r.CheckLiveness(ctx); err != nil {
		return nil, err
	}

	content, err := r.client.Chat(ctx, buildMessages(prompt))
	if err != nil {
		slog.Error("API request failed", "error", err)
		return nil, err
	}

	plan, err := ParsePlan(content)
	if err != nil {
		slog.Error("Plan generation failed", "error", err, "content", content)
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	slog.Info("Validated mashup plan",
		"songs", plan.Songs,
		"segments", plan.Segments,
		"crossfade_ms", plan.CrossfadeMs,
	)
	return plan, nil
}
