package crawl

import (
	"context"
	"time"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for retried
// operations: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry runs op with exponential backoff. It retries up to 3 times
// (4 total attempts) with delays of 1s, 2s, 4s. The logger function,
// if provided, is called for each retry attempt.
func Retry(ctx context.Context, op func(ctx context.Context) error, logger LogFunc) error {
	return RetryWithDelays(ctx, op, logger, DefaultRetryDelays())
}

// RetryWithDelays is like Retry but allows configurable delays.
// This is useful for testing without waiting for real delays.
func RetryWithDelays(ctx context.Context, op func(ctx context.Context) error, logger LogFunc, delays []time.Duration) error {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry (attempt %d): %v", attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
