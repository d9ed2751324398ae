package db

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy is the single retry wrapper around storage boundary calls.
// Call sites must not implement their own reconnect-and-retry logic.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy retries once after a short pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, Backoff: 50 * time.Millisecond}
}

// Do runs fn up to MaxAttempts times with linear backoff between attempts.
// ErrKeyNotFound is never retried: a missing key is an answer, not an outage.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || errors.Is(err, ErrKeyNotFound) {
			return err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff * time.Duration(attempt)):
		}
	}
	return err
}
