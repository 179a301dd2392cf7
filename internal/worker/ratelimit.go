package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"openlark/pkg/lark"
	"openlark/pkg/logger"
)

// budget shares the gateway's rate limit between concurrent jobs.
//
// It remembers the last rate limit reported by the gateway and the number of
// requests in flight. A request may start while
//
//	remaining - inFlight > 0
//
// where remaining is the reported Remaining, or Limit once ResetAt passed.
// Otherwise reserve waits for the window to reset or for another request to
// finish.
//
// Until the first response arrives the budget allows a single trial request,
// so the real limits are learned before any concurrency is allowed.
//
// Reports are merged conservatively: a new window is always adopted, and
// within the same window the lower Remaining wins. The gateway reports the
// reset as seconds from now, so resets less than a second apart are the same
// window.
type budget struct {
	mu       sync.Mutex
	inFlight int
	last     *lark.RateLimit
	// finished wakes one waiter in reserve when a request completes.
	finished chan struct{}
}

func newBudget() *budget {
	return &budget{finished: make(chan struct{})}
}

// reserve takes one request from the budget, blocking until one is available
// or ctx is done.
func (b *budget) reserve(ctx context.Context) error {
	for {
		b.mu.Lock()

		if b.last == nil {
			b.last = &lark.RateLimit{
				Limit:     1,
				Remaining: 1,
				ResetAt:   time.Now().Add(365 * 24 * time.Hour),
			}
		}

		remaining := b.last.Remaining
		if time.Now().After(b.last.ResetAt) {
			remaining = b.last.Limit
		}

		if remaining-b.inFlight > 0 {
			b.inFlight++
			logger.Debug(ctx, "reserved rate limit slot",
				zap.Int("remaining", remaining),
				zap.Int("limit", b.last.Limit),
				zap.Time("reset_at", b.last.ResetAt),
				zap.Int("in_flight", b.inFlight))
			b.mu.Unlock()

			return nil
		}

		resetAt := b.last.ResetAt
		inFlight := b.inFlight
		b.mu.Unlock()

		logger.Debug(ctx, "waiting for rate limit slot",
			zap.Int("remaining", remaining),
			zap.Time("reset_at", resetAt),
			zap.Int("in_flight", inFlight))

		timer := time.NewTimer(time.Until(resetAt))
		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("timeout waiting for rate limit: %w", ctx.Err())
		case <-b.finished:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// release returns a reservation and merges the rate limit observed by the
// request. A zero rl leaves the known limit unchanged.
func (b *budget) release(ctx context.Context, rl lark.RateLimit) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFlight > 0 {
		b.inFlight--
	}

	select {
	case b.finished <- struct{}{}:
	default:
	}

	if rl.IsZero() {
		return
	}

	if b.last == nil || !sameWindow(b.last.ResetAt, rl.ResetAt) || rl.Remaining < b.last.Remaining {
		b.last = &rl
		logger.Debug(ctx, "received rate limit",
			zap.Int("limit", rl.Limit),
			zap.Int("remaining", rl.Remaining),
			zap.Time("reset_at", rl.ResetAt),
			zap.Int("in_flight", b.inFlight))
	}
}

func sameWindow(a, b time.Time) bool {
	d := a.Sub(b)

	return d > -time.Second && d < time.Second
}
