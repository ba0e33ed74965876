package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends mail via unauthenticated SMTP (Mailpit-compatible in
// development, a relay in production).
type SMTPNotifier struct {
	addr string
	from string
}

func NewSMTPNotifier(host, port, from string) *SMTPNotifier {
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@calendar-booking.local"
	}
	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from: from,
	}
}

func (s *SMTPNotifier) Send(_ context.Context, recipient string, kind Kind, payload Payload) error {
	subject, body, err := render(kind, payload)
	if err != nil {
		return err
	}
	msg := buildMessage(s.from, recipient, subject, body)
	if err := smtp.SendMail(s.addr, nil, s.from, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send %s mail failed: %w", kind, err)
	}
	return nil
}

// buildMessage assembles a minimal RFC 5322 plain-text message.
func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body,
	)
}
