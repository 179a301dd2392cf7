package notifier

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"openlark/pkg/domain"
)

// DeliveryJobArgs contains the arguments for a delivery job submitted to River.
type DeliveryJobArgs struct {
	// DeliveryID is the delivery to send. It is marked as unique so River keeps
	// at most one job per delivery.
	DeliveryID string `json:"delivery_id" river:"unique"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
}

// NewDeliveryJobArgs returns the job arguments for sending the given delivery.
func NewDeliveryJobArgs(id domain.DeliveryID, maxAttempts int) DeliveryJobArgs {
	return DeliveryJobArgs{DeliveryID: id.String(), maxAttempts: maxAttempts}
}

// Kind returns the River job kind used to register and dispatch the delivery worker.
func (args DeliveryJobArgs) Kind() string { return "DeliverMessageJob" }

// InsertOpts returns the River options that control how the job is enqueued.
func (args DeliveryJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		// one job per delivery in any state but discarded and cancelled
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStateCompleted,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
