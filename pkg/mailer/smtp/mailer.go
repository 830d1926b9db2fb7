// Package smtp provides a mailer.Mailer implementation over plain SMTP with
// optional AUTH, which covers both local relays and hosted providers.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"wefund/pkg/mailer"
)

// Options configures the SMTP connection and envelope sender.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the envelope and header sender address.
	From string
}

// Mailer sends mail through a single SMTP server.
type Mailer struct {
	options Options
}

// Send delivers the email synchronously. Context cancellation is checked
// before dialing; net/smtp does not support mid-send cancellation.
func (m *Mailer) Send(ctx context.Context, email mailer.Email) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.options.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(email.Body)

	addr := fmt.Sprintf("%s:%d", m.options.Host, m.options.Port)
	var auth smtp.Auth
	if m.options.Username != "" {
		auth = smtp.PlainAuth("", m.options.Username, m.options.Password, m.options.Host)
	}

	if err := smtp.SendMail(addr, auth, m.options.From, []string{email.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}

	return nil
}

// Ensure Mailer conforms to the mailer.Mailer interface at compile time.
var _ mailer.Mailer = (*Mailer)(nil)

// New constructs a Mailer for the given SMTP server.
func New(options Options) *Mailer {
	return &Mailer{options: options}
}
