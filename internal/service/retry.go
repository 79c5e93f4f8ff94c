package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"medbook/internal/domain"
)

type retryPolicy struct {
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

// retryTransient runs fn until it succeeds, fails with something other than
// ErrTransientConflict, or the policy is exhausted. The delay doubles after
// each attempt with up to 50% jitter. The whole loop shares one deadline.
func retryTransient[T any](ctx context.Context, p retryPolicy, onRetry func(attempt int, err error), fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	attempts := max(p.attempts, 1)
	delay := p.backoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, domain.ErrTransientConflict) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}

		wait := delay
		if half := int64(delay / 2); half > 0 {
			wait = delay/2 + time.Duration(rand.Int64N(half+1))
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%w: %w", domain.ErrTransientConflict, ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}

	return zero, fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}
