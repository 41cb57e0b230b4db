// Package retry decorates an LLM provider with bounded retries for transient
// failures. It never crosses the extraction service boundary: the caller
// still sees one call that either yields a response or fails.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/amishk599/internscout/internal/ai"
	"github.com/amishk599/internscout/internal/model"
)

// Provider retries transient failures with exponential backoff and jitter
// before giving up on the wrapped LLMProvider.
type Provider struct {
	inner      ai.LLMProvider
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewProvider wraps an LLMProvider with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewProvider(inner ai.LLMProvider, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Provider {
	return &Provider{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Complete calls the wrapped provider, retrying on transient errors.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := p.inner.Complete(ctx, prompt)
	if err == nil {
		return out, nil
	}

	if !isRetryable(err) {
		return "", err
	}

	lastErr := err
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		p.logger.Warn("retrying extraction service after transient error",
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = p.inner.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}

		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (p *Provider) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation or an expired call budget: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 || httpErr.StatusCode >= 500 {
			return true
		}
		// Other 4xx (bad key, bad request) won't improve on retry.
		return false
	}

	// Non-HTTP errors (network, DNS, etc.) are retryable.
	return true
}
