package storage

import (
	"context"
	"time"

	"wefund/pkg/domain"
)

// NotificationPage groups a page of notifications together with an optional
// NextCursor used for pagination.
type NotificationPage struct {
	Notifications []domain.Notification
	NextCursor    *time.Time
}

// NotificationStorage defines persistence for stored notifications and
// registered push device tokens.
type NotificationStorage interface {
	// StoreNotification inserts a new notification and returns the stored row.
	StoreNotification(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	// UserNotifications returns a page of the user's notifications, newest
	// first.
	UserNotifications(ctx context.Context, userID domain.UserID, cursor time.Time, limit uint) (NotificationPage, error)
	// MarkNotificationsRead marks all of the user's unread notifications as read
	// and returns the number of rows affected.
	MarkNotificationsRead(ctx context.Context, userID domain.UserID) (int64, error)
	// MarkNotificationSent records successful push delivery.
	MarkNotificationSent(ctx context.Context, ID domain.NotificationID) error

	// StoreDeviceToken registers a push target. Re-registering an existing token
	// moves it to the given user instead of failing.
	StoreDeviceToken(ctx context.Context, token domain.DeviceToken) (*domain.DeviceToken, error)
	// DeviceTokens returns all registered push targets for the user.
	DeviceTokens(ctx context.Context, userID domain.UserID) ([]domain.DeviceToken, error)
	// DeleteDeviceToken removes a push target by its token string, typically
	// after the push provider reports it invalid.
	DeleteDeviceToken(ctx context.Context, token string) error
}
