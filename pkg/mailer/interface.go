// Package mailer defines the outbound email abstraction used for
// verification links, codes, and transactional notices.
package mailer

import "context"

// Email is a single outbound message.
type Email struct {
	To      string
	Subject string
	// Body is plain text.
	Body string
}

// Mailer is the abstraction for email delivery backends.
//
//go:generate mockgen -package mockmailer -source=interface.go -destination=mock/mockmailer.go *
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
