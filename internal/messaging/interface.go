package messaging

import (
	"context"

	"wefund/pkg/domain"
)

// Notifier delivers the in-app notification raised by a new message.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
}

// Pusher fans a payload out to a user's live websocket sessions.
type Pusher interface {
	Push(userID domain.UserID, payload []byte) int
	Online(userID domain.UserID) bool
}

//go:generate mockgen -package mockmessaging -source=interface.go -destination=mock/mockmessaging.go *
type Messaging interface {
	// Send stores a direct message, pushes it to the receiver's live sessions
	// and raises a notification when the receiver is offline.
	Send(ctx context.Context, sender domain.User, receiverID domain.UserID, body string) (*domain.Message, error)
	// Conversations summarizes the user's message threads, most recent first.
	Conversations(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error)
	// Thread returns the full exchange with one peer, oldest first, and marks
	// the peer's messages as read.
	Thread(ctx context.Context, userID, peerID domain.UserID) ([]domain.Message, error)
}
