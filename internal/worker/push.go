package worker

import (
	"context"
	"errors"
	"fmt"

	"wefund/internal/notify"
	"wefund/pkg/logger"
	"wefund/pkg/serrors"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// PushWorker is a River worker that fans a stored notification out to the
// user's registered devices.
type PushWorker struct {
	river.WorkerDefaults[notify.PushJobArgs]

	notifier notify.Notifier
}

// NewPushWorker constructs a PushWorker backed by the given notifier.
func NewPushWorker(notifier notify.Notifier) *PushWorker {
	return &PushWorker{notifier: notifier}
}

// Work delivers one notification. Rate limiting from the push provider
// snoozes the job; anything else fails it into River's retry schedule.
func (w *PushWorker) Work(ctx context.Context, job *river.Job[notify.PushJobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("notificationID", job.Args.NotificationID))

	if err := w.notifier.DeliverPush(ctx, job.Args); err != nil {
		logger.Error(ctx, "error delivering push notification", zap.Error(err))

		if errors.Is(err, serrors.ErrRateLimited) {
			return river.JobSnooze(pushBackoff) //nolint: wrapcheck
		}

		return fmt.Errorf("could not deliver push notification: %w", err)
	}

	logger.Info(ctx, "push notification delivered")

	return nil
}
