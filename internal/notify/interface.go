package notify

import (
	"context"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"
)

//go:generate mockgen -package mocknotify -source=interface.go -destination=mock/mocknotify.go *
type Notifier interface {
	// Notify stores a notification for the user and enqueues its push
	// delivery. The stored notification is returned.
	Notify(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	// Email enqueues an outbound email for background delivery.
	Email(ctx context.Context, to, subject, body string) error

	// RegisterDevice records a push target for the user. Registering a token
	// that already belongs to another user moves it.
	RegisterDevice(ctx context.Context, userID domain.UserID,
		token string, platform domain.DevicePlatform) (*domain.DeviceToken, error)
	// UnregisterDevice removes a push target.
	UnregisterDevice(ctx context.Context, token string) error

	// Notifications returns a page of the user's notifications, newest first.
	Notifications(ctx context.Context, userID domain.UserID,
		cursor time.Time, limit uint) (storage.NotificationPage, error)
	// MarkRead marks all of the user's notifications as read and returns how
	// many were affected.
	MarkRead(ctx context.Context, userID domain.UserID) (int64, error)

	// DeliverPush sends the notification to every device registered for its
	// user, pruning tokens the push provider reports as dead. It is the
	// execution path of PushJobArgs.
	DeliverPush(ctx context.Context, args PushJobArgs) error
}
