package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleMailer logs messages instead of delivering them. Used when no
// SendGrid API key is configured (local development, tests).
type ConsoleMailer struct {
	log zerolog.Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

// NewConsoleMailer creates a ConsoleMailer.
func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log.With().Str("component", "console_mailer").Logger()}
}

// Send logs the message and succeeds.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.log.Info().
		Str("event", msg.Event).
		Strs("to", msg.Recipients).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("Email (console delivery)")
	return nil
}
