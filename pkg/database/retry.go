package database

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts  = 5
	defaultBaseDelay    = 5 * time.Millisecond
	defaultJitterFactor = 0.3
)

// RetryableFunc is one attempt of an operation that may lose a race
type RetryableFunc func(ctx context.Context) error

// RetryOn runs fn until it succeeds, fails with an error retryable rejects,
// or maxAttempts is reached. Delays grow as base*2^(attempt-1) plus jitter.
func RetryOn(ctx context.Context, maxAttempts int, retryable func(error) bool, fn RetryableFunc) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := defaultBaseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * defaultJitterFactor //nolint:gosec
			select {
			case <-time.After(delay + time.Duration(jitter)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
