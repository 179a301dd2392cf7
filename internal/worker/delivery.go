package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"openlark/internal/notifier"
	"openlark/pkg/domain"
	"openlark/pkg/logger"
	"openlark/pkg/serrors"
)

// defaultSnooze is used when a rate limited response carried no reset header.
const defaultSnooze = 30 * time.Second

// DeliveryWorker is a River worker that sends queued deliveries. Concurrent
// jobs share one budget, so the worker pool never outruns the rate limit the
// gateway reports for the messages endpoint.
//
// Jobs whose delivery can never be sent (gone, no longer pending, or rejected
// by the platform) are canceled. Rate limited jobs are snoozed until the
// window resets. Any other error is returned so River retries the job.
type DeliveryWorker struct {
	river.WorkerDefaults[notifier.DeliveryJobArgs]

	notifier notifier.Notifier
	budget   *budget
}

// NewDeliveryWorker constructs a DeliveryWorker using the provided notifier.
func NewDeliveryWorker(notifier notifier.Notifier) *DeliveryWorker {
	return &DeliveryWorker{
		notifier: notifier,
		budget:   newBudget(),
	}
}

// Work sends the delivery of a single job.
func (w *DeliveryWorker) Work(ctx context.Context, job *river.Job[notifier.DeliveryJobArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("job_id", job.ID), zap.String("delivery_id", job.Args.DeliveryID))

	id, err := domain.ParseDeliveryID(job.Args.DeliveryID)
	if err != nil {
		logger.Error(ctx, "invalid delivery id", zap.Error(err))

		return river.JobCancel(fmt.Errorf("invalid delivery id: %w", err)) //nolint: wrapcheck
	}

	if err := w.budget.reserve(ctx); err != nil {
		logger.Error(ctx, "error reserving rate limit", zap.Error(err))

		return fmt.Errorf("could not reserve rate limit: %w", err)
	}

	delivery, rl, err := w.notifier.Deliver(ctx, id)
	w.budget.release(ctx, rl)
	if err != nil {
		if errors.Is(err, serrors.ErrConflict) || notifier.Permanent(err) {
			logger.Warn(ctx, "delivery canceled", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "error delivering message", zap.Error(err))

		if errors.Is(err, serrors.ErrRateLimited) {
			dur := defaultSnooze
			if !rl.IsZero() {
				dur = max(time.Until(rl.ResetAt), 0)
			}

			return river.JobSnooze(dur) //nolint: wrapcheck
		}

		return fmt.Errorf("could not deliver message: %w", err)
	}

	logger.Info(ctx, "message delivered", zap.String("message_id", delivery.MessageID))

	return nil
}
