// Package notification delivers email, either synchronously over SMTP or
// through the background task queue.
package notification

import (
	"context"
	"fmt"

	"gopkg.in/mail.v2"
)

// Sender is the part of mail.Dialer used by SMTPMailer
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPMailer sends HTML email through an SMTP server
type SMTPMailer struct {
	sender Sender
	from   string
}

// NewSMTPMailer creates a mailer that dials the SMTP server for every message
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		sender: mail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// NewSMTPMailerWithSender creates a mailer on top of an existing sender
func NewSMTPMailerWithSender(sender Sender, from string) *SMTPMailer {
	return &SMTPMailer{sender: sender, from: from}
}

// SendEmail sends an HTML email. The SMTP dial is not cancellable, so ctx is
// only checked before sending.
func (m *SMTPMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
