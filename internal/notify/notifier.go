// Package notify delivers customer-facing messages. Delivery is
// fire-and-forget from the workflow's point of view; callers decide whether
// a send failure matters for their own state transition.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Kind selects the message template.
type Kind string

const (
	KindOTPCode             Kind = "otp_code"
	KindBookingConfirmation Kind = "booking_confirmation"
	KindBookingReminder     Kind = "booking_reminder"
)

// Payload carries template values keyed by name.
type Payload map[string]string

// Notifier sends a templated message to a recipient.
type Notifier interface {
	Send(ctx context.Context, recipient string, kind Kind, payload Payload) error
}

// render builds the subject and plain-text body for a message kind.
func render(kind Kind, payload Payload) (subject, body string, err error) {
	switch kind {
	case KindOTPCode:
		subject = "Your verification code"
		body = fmt.Sprintf(
			"Your verification code is %s.\n\nIt expires in %s. If you did not request it, ignore this message.",
			payload["code"], payload["expires_in"],
		)
	case KindBookingConfirmation:
		subject = "Booking confirmed: " + payload["title"]
		body = fmt.Sprintf(
			"Hi %s,\n\nYour booking %q is confirmed for %s (UTC).\n\nManage your booking with this link:\n%s",
			payload["name"], payload["title"], payload["start"], payload["manage_url"],
		)
	case KindBookingReminder:
		subject = "Reminder: " + payload["title"]
		body = fmt.Sprintf(
			"Hi %s,\n\nThis is a reminder for your booking %q at %s (UTC).",
			payload["name"], payload["title"], payload["start"],
		)
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}
	return subject, body, nil
}

// NoopNotifier logs instead of sending. Used in development and tests.
type NoopNotifier struct {
	Logger zerolog.Logger
}

func (n *NoopNotifier) Send(_ context.Context, recipient string, kind Kind, payload Payload) error {
	subject, _, err := render(kind, payload)
	if err != nil {
		return err
	}
	n.Logger.Info().
		Str("recipient", recipient).
		Str("kind", string(kind)).
		Str("subject", subject).
		Msg("notification suppressed (noop notifier)")
	return nil
}
