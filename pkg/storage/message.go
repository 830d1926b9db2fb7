package storage

import (
	"context"

	"wefund/pkg/domain"
)

// MessageStorage defines persistence for direct messages between users.
type MessageStorage interface {
	// StoreMessage inserts a new message and returns the stored row.
	StoreMessage(ctx context.Context, message domain.Message) (*domain.Message, error)
	// Thread returns all messages between the two users, oldest first.
	Thread(ctx context.Context, userID, peerID domain.UserID) ([]domain.Message, error)
	// MarkThreadRead marks all messages sent by peerID to userID as read and
	// returns the number of rows affected.
	MarkThreadRead(ctx context.Context, userID, peerID domain.UserID) (int64, error)
	// Conversations returns one summary per peer the user has exchanged
	// messages with, most recent thread first.
	Conversations(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error)
}
