package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageID uniquely identifies a direct message.
type MessageID uuid.UUID

// Message is a direct message between two users.
type Message struct {
	ID MessageID `json:"id"`

	SenderID   UserID `json:"senderId"`
	ReceiverID UserID `json:"receiverId"`
	Body       string `json:"message"`

	// Read is set once the receiver has fetched the thread.
	Read bool `json:"read"`

	CreatedAt time.Time `json:"timestamp"`
}

// Conversation summarizes a message thread with one peer, for the inbox view.
type Conversation struct {
	// PeerID is the other participant.
	PeerID   UserID `json:"userId"`
	PeerName string `json:"userName"`
	// LastMessage is the body of the most recent message in the thread.
	LastMessage string    `json:"lastMessage"`
	LastAt      time.Time `json:"timestamp"`
	// Unread reports whether the thread has messages the user hasn't read.
	Unread bool `json:"unread"`
}
