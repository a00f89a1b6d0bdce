package transcribe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// backoff holds exponential retry parameters. Zero or negative fields are
// normalized by retry: attempts < 0 means a single try, base <= 0 means 1ms,
// max <= 0 means base.
type backoff struct {
	retries int
	base    time.Duration
	max     time.Duration
}

// retry calls fn until it succeeds, shouldRetry rejects its error, ctx ends,
// or the retries are spent. Delays double from b.base up to b.max.
func retry[T any](ctx context.Context, b backoff, log *zap.Logger, fn func() (T, error), shouldRetry func(error) bool) (T, error) {
	if b.retries < 0 {
		b.retries = 0
	}
	if b.base <= 0 {
		b.base = time.Millisecond
	}
	if b.max <= 0 {
		b.max = b.base
	}

	var zero T
	var lastErr error
	delay := b.base

	for attempt := 0; attempt <= b.retries; attempt++ {
		if attempt > 0 {
			log.Debug("retrying", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(lastErr))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
			delay = min(delay*2, b.max)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("max retries (%d) exceeded: %w", b.retries, lastErr)
}
