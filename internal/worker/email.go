package worker

import (
	"context"
	"fmt"
	"time"

	"wefund/internal/notify"
	"wefund/pkg/logger"
	"wefund/pkg/mailer"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// pushBackoff is how long a rate-limited delivery job sleeps before retrying.
const pushBackoff = time.Minute

// EmailWorker is a River worker that sends queued email through the
// configured mailer.
type EmailWorker struct {
	river.WorkerDefaults[notify.EmailJobArgs]

	mailer mailer.Mailer
}

// NewEmailWorker constructs an EmailWorker backed by the given mailer.
func NewEmailWorker(mailer mailer.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Work(ctx context.Context, job *river.Job[notify.EmailJobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("to", job.Args.To))

	if err := w.mailer.Send(ctx, mailer.Email{
		To:      job.Args.To,
		Subject: job.Args.Subject,
		Body:    job.Args.Body,
	}); err != nil {
		logger.Error(ctx, "error sending email", zap.Error(err))

		return fmt.Errorf("could not send email: %w", err)
	}

	logger.Info(ctx, "email sent")

	return nil
}
