package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs in the same backend as the outbox, so
// a delivery and its job can be written in one transaction.
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. It reports false
	// when the job was skipped as a duplicate of a unique job. Inside a
	// transaction the job only becomes visible on commit.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
