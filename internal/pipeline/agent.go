package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/conclave/internal/config"
)

// Evaluation is a completed review: the raw text the model produced and the
// model that produced it.
type Evaluation struct {
	Text  string
	Model string
}

// Agent runs a single review against a model fallback chain. Rate-limited and
// unknown-model responses advance to the next model immediately; every other
// failure retries the current model with doubling backoff. An Agent tracks
// chain position across calls and is not safe for concurrent use; the
// orchestrator creates one per reviewer slot.
type Agent struct {
	client     Client
	models     []string
	rubric     string
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error

	model   int
	retries int
}

// NewAgent creates an Agent positioned at the start of the model chain.
func NewAgent(client Client, cfg config.ReviewConfig, logger *slog.Logger) *Agent {
	return &Agent{
		client:     client,
		models:     cfg.Models,
		rubric:     Rubric(cfg),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.BackoffDuration(),
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Review evaluates text against the rubric and returns the first successful
// completion. A successful response without textual content is terminal.
// Exhausting retries on the last model returns an error wrapping the final
// failure.
func (a *Agent) Review(ctx context.Context, text string) (*Evaluation, error) {
	for {
		model := a.models[a.model]

		a.logger.Info("attempting review",
			"model", model,
			"attempt", a.retries+1,
		)

		result, err := a.client.Complete(ctx, model, a.rubric, text)
		if err == nil {
			return &Evaluation{Text: result, Model: model}, nil
		}

		if errors.Is(err, ErrNoText) {
			return nil, err
		}

		var svcErr *ServiceError
		if errors.As(err, &svcErr) && svcErr.Retryable() && a.model < len(a.models)-1 {
			a.logger.Warn("model unavailable, switching to next",
				"model", model,
				"status", svcErr.Status,
				"next", a.models[a.model+1],
			)
			a.model++
			a.retries = 0
			continue
		}

		if a.retries >= a.maxRetries {
			return nil, fmt.Errorf("AI service error after %d attempts: %w", a.maxRetries, err)
		}

		a.logger.Warn("review attempt failed, retrying",
			"model", model,
			"backoff", a.backoff,
			"error", err,
		)

		if err := a.sleep(ctx, a.backoff); err != nil {
			return nil, err
		}

		a.backoff *= 2
		a.retries++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
