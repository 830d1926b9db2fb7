package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationID uniquely identifies a stored notification.
type NotificationID uuid.UUID

// NotificationType classifies a notification for client-side routing.
type NotificationType string

const (
	NotificationTypeInvestment NotificationType = "investment"
	NotificationTypeProject    NotificationType = "project"
	NotificationTypeSystem     NotificationType = "system"
	NotificationTypeMessage    NotificationType = "message"
)

// Notification is a stored per-user notification. Sent tracks push delivery;
// Read tracks the in-app inbox.
type Notification struct {
	ID     NotificationID `json:"id"`
	UserID UserID         `json:"userId"`

	Title string           `json:"title"`
	Body  string           `json:"message"`
	Type  NotificationType `json:"type"`
	// Data is an arbitrary payload forwarded to the device.
	Data map[string]string `json:"data,omitempty"`

	Read   bool      `json:"read"`
	Sent   bool      `json:"sent"`
	SentAt time.Time `json:"sentAt,omitempty"`
	ReadAt time.Time `json:"readAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// DevicePlatform is the OS family of a registered push target.
type DevicePlatform string

const (
	DevicePlatformAndroid DevicePlatform = "android"
	DevicePlatformIOS     DevicePlatform = "ios"
	DevicePlatformWeb     DevicePlatform = "web"
)

// ValidDevicePlatform reports whether p names a supported platform.
func ValidDevicePlatform(p DevicePlatform) bool {
	switch p {
	case DevicePlatformAndroid, DevicePlatformIOS, DevicePlatformWeb:
		return true
	}

	return false
}

// DeviceToken is a registered push-notification target for a user.
type DeviceToken struct {
	ID        uuid.UUID      `json:"id"`
	UserID    UserID         `json:"userId"`
	Token     string         `json:"deviceToken"`
	Platform  DevicePlatform `json:"deviceType"`
	CreatedAt time.Time      `json:"registeredAt"`
}
