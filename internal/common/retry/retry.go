// Package retry runs an operation with capped exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config defines retry behavior for transient failures.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultConfig: three retries starting at one second, capped at ten.
var DefaultConfig = Config{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Backoff returns the delay before retry number attempt (0-based).
func (c Config) Backoff(attempt int) time.Duration {
	delay := c.BaseDelay * time.Duration(1<<attempt)
	if c.MaxDelay > 0 && (delay > c.MaxDelay || delay <= 0) {
		delay = c.MaxDelay
	}
	return delay
}

// Do calls op until it succeeds, returns an error isRetryable rejects, or
// MaxRetries retries have been spent. The last error is returned unwrapped so
// callers can classify it. Cancellation of ctx stops the wait between attempts.
func Do(ctx context.Context, cfg Config, isRetryable func(error) bool, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == cfg.MaxRetries || (isRetryable != nil && !isRetryable(err)) {
			return err
		}

		select {
		case <-time.After(cfg.Backoff(attempt)):
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt+1, ctx.Err())
		}
	}

	return lastErr
}
