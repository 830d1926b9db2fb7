package worker_test

import (
	"context"
	"testing"
	"time"

	"wefund/internal/notify"
	"wefund/internal/storagetest"
	"wefund/internal/worker"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/mailer"
	"wefund/pkg/push"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

type senderFunc func(ctx context.Context, token string, message push.Message) error

func (f senderFunc) Send(ctx context.Context, token string, message push.Message) error {
	return f(ctx, token, message)
}

type mailerFunc func(ctx context.Context, email mailer.Email) error

func (f mailerFunc) Send(ctx context.Context, email mailer.Email) error { return f(ctx, email) }

func pushJob(args notify.PushJobArgs) *river.Job[notify.PushJobArgs] {
	return &river.Job[notify.PushJobArgs]{
		JobRow: &rivertype.JobRow{ID: 1, CreatedAt: time.Now()},
		Args:   args,
	}
}

func TestPushWorker_Work(t *testing.T) {
	var sent []string
	fake := &storagetest.FakeStorage{
		DeviceTokensFunc: func(context.Context, domain.UserID) ([]domain.DeviceToken, error) {
			return []domain.DeviceToken{{Token: "tok-1"}}, nil
		},
	}
	notifier := notify.New(fake, senderFunc(func(_ context.Context, token string, _ push.Message) error {
		sent = append(sent, token)

		return nil
	}), notify.Options{})

	w := worker.NewPushWorker(notifier)
	err := w.Work(context.Background(), pushJob(notify.PushJobArgs{
		NotificationID: uuid.NewString(),
		UserID:         uuid.NewString(),
		Title:          "hi",
	}))
	require.NoError(t, err)
	require.Equal(t, []string{"tok-1"}, sent)
}

func TestEmailWorker_Work(t *testing.T) {
	var delivered mailer.Email
	w := worker.NewEmailWorker(mailerFunc(func(_ context.Context, email mailer.Email) error {
		delivered = email

		return nil
	}))

	err := w.Work(context.Background(), &river.Job[notify.EmailJobArgs]{
		JobRow: &rivertype.JobRow{ID: 2, CreatedAt: time.Now()},
		Args: notify.EmailJobArgs{
			To:      "jane@example.com",
			Subject: "Verify your WeFund email",
			Body:    "click the link",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", delivered.To)
	require.Equal(t, "Verify your WeFund email", delivered.Subject)
}
