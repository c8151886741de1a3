package notifier

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailNotifier sends alerts over authenticated SMTP. The SMS address is an
// email-to-SMS carrier gateway and is delivered as Bcc.
type EmailNotifier struct {
	Host string
	From string
	To   string
	SMS  string

	send func(m *gomail.Message) error
}

// NewEmailNotifier creates a notifier that logs in as username. Port 465
// uses implicit TLS.
func NewEmailNotifier(host string, port int, username, password, to, sms string) *EmailNotifier {
	d := gomail.NewDialer(host, port, username, password)
	return &EmailNotifier{
		Host: host,
		From: username,
		To:   to,
		SMS:  sms,
		send: func(m *gomail.Message) error { return d.DialAndSend(m) },
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// Notify sends one plain-text message to the configured recipients.
func (n *EmailNotifier) Notify(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: email: %w", ErrDispatch, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", n.To)
	if n.SMS != "" {
		m.SetHeader("Bcc", n.SMS)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	// the SMTP session does not take a context, so wait on both
	done := make(chan error, 1)
	go func() { done <- n.send(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: email via %s: %w", ErrDispatch, n.Host, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: email via %s: %w", ErrDispatch, n.Host, ctx.Err())
	}
}
