package notify

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// PushJobArgs contains the arguments for a push delivery job submitted to
// River. The notification payload travels with the job so the worker does not
// have to load it back, and the notification ID is the unique key so the same
// notification is never pushed twice.
type PushJobArgs struct {
	// NotificationID identifies the stored notification being delivered.
	NotificationID string `json:"notification_id" river:"unique"`

	UserID string            `json:"user_id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
}

// Kind returns the River job kind used to register and dispatch the push worker.
func (args PushJobArgs) Kind() string { return "SendPushJob" }

// InsertOpts returns the River options that control how the job is enqueued,
// including the maximum retry attempts and uniqueness on the notification ID
// while a delivery for it is still in flight.
func (args PushJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// EmailJobArgs contains the arguments for an outbound email job.
type EmailJobArgs struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`

	maxAttempts int
}

// Kind returns the River job kind used to register and dispatch the email worker.
func (args EmailJobArgs) Kind() string { return "SendEmailJob" }

// InsertOpts returns the River options for email jobs. Emails are not unique:
// two identical mails are two deliveries.
func (args EmailJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
	}
}
