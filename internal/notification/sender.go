package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/avelasco/rsvp-api/internal/models"
)

// ReminderSender hands a due invitation to the delivery transport. The core
// only records that a dispatch was attempted; whatever happens after this
// call (SMS, WhatsApp, email relay) is the transport's responsibility.
type ReminderSender interface {
	SendReminder(ctx context.Context, inv models.Invitation) error
}

// LogSender is the fallback transport when no mailer is configured: it writes
// the reminder to the log and succeeds. Useful for development and tests.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "log_sender").Logger()}
}

func (s *LogSender) SendReminder(ctx context.Context, inv models.Invitation) error {
	s.logger.Info().
		Str("token", inv.Token).
		Str("event_id", inv.EventID).
		Str("participant_id", inv.ParticipantID).
		Str("contact", inv.ParticipantContact).
		Msg("reminder dispatched (log only)")
	return nil
}

func (s *LogSender) String() string { return "log" }
