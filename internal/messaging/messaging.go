// Package messaging implements direct messages between users, with realtime
// delivery over websockets for users that are online.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"go.uber.org/zap"
)

type messaging struct {
	storage  storage.Storage
	notifier Notifier
	pusher   Pusher
}

func (m *messaging) Send(ctx context.Context,
	sender domain.User, receiverID domain.UserID, body string,
) (*domain.Message, error) {
	if body == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "message body is required")
	}
	if receiverID == sender.ID {
		return nil, serrors.With(serrors.ErrBadRequest, "you cannot message yourself")
	}

	receiver, err := m.storage.UserByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch receiver: %w", err)
	}
	if receiver == nil {
		return nil, serrors.With(serrors.ErrNotFound, "receiver not found")
	}

	message, err := m.storage.StoreMessage(ctx, domain.Message{
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		Body:       body,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store message: %w", err)
	}

	m.deliver(ctx, sender, *message)

	return message, nil
}

// deliver pushes the message to the receiver's live sessions and falls back
// to a notification when none are connected. Best effort.
func (m *messaging) deliver(ctx context.Context, sender domain.User, message domain.Message) {
	if m.pusher != nil && m.pusher.Online(message.ReceiverID) {
		payload, err := json.Marshal(message)
		if err == nil && m.pusher.Push(message.ReceiverID, payload) > 0 {
			return
		}
	}

	_, err := m.notifier.Notify(ctx, domain.Notification{
		UserID: message.ReceiverID,
		Title:  fmt.Sprintf("Message from %s", sender.Name),
		Body:   message.Body,
		Type:   domain.NotificationTypeMessage,
	})
	if err != nil {
		logger.Error(ctx, "could not notify receiver", zap.Error(err))
	}
}

func (m *messaging) Conversations(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error) {
	conversations, err := m.storage.Conversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch conversations: %w", err)
	}

	return conversations, nil
}

func (m *messaging) Thread(ctx context.Context, userID, peerID domain.UserID) ([]domain.Message, error) {
	messages, err := m.storage.Thread(ctx, userID, peerID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch thread: %w", err)
	}

	if _, err := m.storage.MarkThreadRead(ctx, userID, peerID); err != nil {
		return nil, fmt.Errorf("could not mark thread read: %w", err)
	}

	return messages, nil
}

// New creates a new Messaging service. pusher may be nil when realtime
// delivery is disabled.
func New(storage storage.Storage, notifier Notifier, pusher Pusher) Messaging {
	return &messaging{
		storage:  storage,
		notifier: notifier,
		pusher:   pusher,
	}
}
