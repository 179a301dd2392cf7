package lark

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"openlark/pkg/logger"
	"openlark/pkg/serrors"
)

// RetryLinear calls fn up to attempts times, sleeping step*n before the n-th
// retry. Only errors of a retryable kind (rate limited, unavailable, timeout)
// are retried; anything else is returned at once.
func RetryLinear(ctx context.Context, attempts int, step time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !serrors.Retryable(err) || attempt == attempts {
			break
		}

		wait := step * time.Duration(attempt)
		logger.Debug(ctx, "retrying lark call",
			zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return err
}
