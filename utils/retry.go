package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff retries fn up to maxRetries times, sleeping attempt² × base
// between attempts. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, maxRetries int, base time.Duration, fn func(ctx context.Context) error, logger *Logger) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * base
			logger.Warn("Retrying (attempt %d/%d) after %v...", attempt+1, maxRetries, backoff)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(backoff):
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			logger.Debug("Attempt %d failed: %v", attempt+1, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", maxRetries, lastErr)
}
