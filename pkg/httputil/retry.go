package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. Source fetchers wrap
// network timeouts and 5xx responses with it so [Retry] tries again;
// anything else (a 404 for a mistyped diagram URL, say) fails fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// Only errors wrapped in [RetryableError] are retried; other errors
// return immediately. The delay doubles after each failed attempt.
// Returns the last error if every attempt fails, or ctx.Err() if the
// context is cancelled while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff calls [Retry] with the defaults used for diagram
// source fetches: 3 attempts starting at 1 second, doubling each retry.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
