// Package notify owns the in-app notification inbox, device token registry
// and the background delivery of push and email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wefund/internal/config"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/push"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options contains the configurable parameters of the notifier.
type Options struct {
	// MaxJobAttempts is the retry budget for delivery jobs.
	MaxJobAttempts int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxJobAttempts: cfg.Worker.MaxAttempts,
	}
}

type notifier struct {
	storage storage.Storage
	sender  push.Sender
	options Options
}

// Notify stores the notification and enqueues a push job carrying its
// payload. Storage and enqueue happen in one transaction so a crash cannot
// leave a notification without its delivery job.
func (n *notifier) Notify(ctx context.Context, notification domain.Notification) (*domain.Notification, error) {
	var stored *domain.Notification
	err := n.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		stored, err = tx.StoreNotification(ctx, notification)
		if err != nil {
			return fmt.Errorf("could not store notification: %w", err)
		}

		_, err = tx.AddJob(ctx, PushJobArgs{
			NotificationID: uuid.UUID(stored.ID).String(),
			UserID:         uuid.UUID(stored.UserID).String(),
			Title:          stored.Title,
			Body:           stored.Body,
			Data:           stored.Data,
			maxAttempts:    n.options.MaxJobAttempts,
		}, nil)
		if err != nil {
			return fmt.Errorf("could not enqueue push job: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// Email enqueues an outbound email for background delivery.
func (n *notifier) Email(ctx context.Context, to, subject, body string) error {
	_, err := n.storage.AddJob(ctx, EmailJobArgs{
		To:          to,
		Subject:     subject,
		Body:        body,
		maxAttempts: n.options.MaxJobAttempts,
	}, nil)
	if err != nil {
		return fmt.Errorf("could not enqueue email job: %w", err)
	}

	return nil
}

// RegisterDevice records the token as a push target for the user.
func (n *notifier) RegisterDevice(ctx context.Context, userID domain.UserID,
	token string, platform domain.DevicePlatform,
) (*domain.DeviceToken, error) {
	if token == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "device token is required")
	}
	if !domain.ValidDevicePlatform(platform) {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported device platform: %s", platform)
	}

	stored, err := n.storage.StoreDeviceToken(ctx, domain.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store device token: %w", err)
	}

	return stored, nil
}

// UnregisterDevice removes the token from the registry.
func (n *notifier) UnregisterDevice(ctx context.Context, token string) error {
	if err := n.storage.DeleteDeviceToken(ctx, token); err != nil {
		return fmt.Errorf("could not delete device token: %w", err)
	}

	return nil
}

// Notifications returns a page of the user's notifications, newest first.
func (n *notifier) Notifications(ctx context.Context, userID domain.UserID,
	cursor time.Time, limit uint,
) (storage.NotificationPage, error) {
	page, err := n.storage.UserNotifications(ctx, userID, cursor, limit)
	if err != nil {
		return storage.NotificationPage{}, fmt.Errorf("could not fetch notifications: %w", err)
	}

	return page, nil
}

// MarkRead marks all of the user's notifications as read.
func (n *notifier) MarkRead(ctx context.Context, userID domain.UserID) (int64, error) {
	count, err := n.storage.MarkNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("could not mark notifications read: %w", err)
	}

	return count, nil
}

// DeliverPush fans the notification out to every registered device. Tokens
// the provider reports as invalid are pruned. The job fails (and River
// retries it) only when every delivery attempt hit a transient error.
func (n *notifier) DeliverPush(ctx context.Context, args PushJobArgs) error {
	userID, err := uuid.Parse(args.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID in job args: %w", err)
	}
	notificationID, err := uuid.Parse(args.NotificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID in job args: %w", err)
	}

	tokens, err := n.storage.DeviceTokens(ctx, domain.UserID(userID))
	if err != nil {
		return fmt.Errorf("could not fetch device tokens: %w", err)
	}

	message := push.Message{
		Title: args.Title,
		Body:  args.Body,
		Data:  args.Data,
	}

	var delivered, transientFailures int
	for _, token := range tokens {
		err := n.sender.Send(ctx, token.Token, message)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, push.ErrInvalidToken):
			logger.Info(ctx, "pruning dead device token",
				zap.String("platform", string(token.Platform)))
			if err := n.storage.DeleteDeviceToken(ctx, token.Token); err != nil {
				logger.Error(ctx, "could not delete device token", zap.Error(err))
			}
		default:
			transientFailures++
			logger.Warn(ctx, "push delivery failed", zap.Error(err))
		}
	}

	if transientFailures > 0 && delivered == 0 {
		return fmt.Errorf("push delivery failed for all %d devices", transientFailures)
	}

	if err := n.storage.MarkNotificationSent(ctx, domain.NotificationID(notificationID)); err != nil {
		return fmt.Errorf("could not mark notification sent: %w", err)
	}

	return nil
}

// New creates a new Notifier backed by the provided storage and push sender.
func New(storage storage.Storage, sender push.Sender, options Options) Notifier {
	return &notifier{
		storage: storage,
		sender:  sender,
		options: options,
	}
}
