// Package push defines the interface and data types used to deliver push
// notifications to registered devices through a backing provider.
package push

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when the provider reports that a device token
// is no longer valid. Callers should drop the token from storage.
var ErrInvalidToken = errors.New("invalid device token")

// Message is a single push notification payload.
type Message struct {
	// Title and Body are shown in the device notification tray.
	Title string
	Body  string
	// Data is an arbitrary key-value payload forwarded to the client app.
	Data map[string]string
}

// Sender is the abstraction for push providers. Implementations deliver a
// message to a single device token.
//
//go:generate mockgen -package mockpush -source=interface.go -destination=mock/mockpush.go *
type Sender interface {
	// Send delivers the message to the device identified by token. It returns
	// ErrInvalidToken when the provider reports the token as dead.
	Send(ctx context.Context, token string, message Message) error
}
