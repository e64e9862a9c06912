package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/avelasco/rsvp-api/internal/config"
	"github.com/avelasco/rsvp-api/internal/models"
)

// SMTPReminderSender delivers reminder emails over plain SMTP. The
// participant contact is used as the recipient address.
type SMTPReminderSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	urlTpl   string
}

// NewSMTPReminderSender constructs a sender from config.
func NewSMTPReminderSender(cfg config.EmailConfig) (*SMTPReminderSender, error) {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, fmt.Errorf("smtp_host is required")
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("email from address is required")
	}

	return &SMTPReminderSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		urlTpl:   cfg.ConfirmURLTemplate,
	}, nil
}

// SendReminder dispatches one nudge email for a pending invitation.
func (s *SMTPReminderSender) SendReminder(ctx context.Context, inv models.Invitation) error {
	subject := fmt.Sprintf("Reminder: please confirm your attendance to %s", inv.EventName)
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n",
		s.from, inv.ParticipantContact, subject)

	body := strings.Builder{}
	body.WriteString(fmt.Sprintf("Hello %s,\n\n", inv.ParticipantName))
	body.WriteString(fmt.Sprintf("You are invited to %s on %s at %s and we have not heard back from you yet.\n", inv.EventName, inv.EventDate, inv.EventTime))
	if s.urlTpl != "" {
		body.WriteString("Please confirm or decline here:\n\n")
		body.WriteString(fmt.Sprintf(s.urlTpl, inv.Token) + "\n\n")
	}
	body.WriteString("If you already replied through another channel, you can ignore this message.\n")

	message := []byte(headers + body.String())
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if strings.TrimSpace(s.username) != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	return smtp.SendMail(addr, auth, s.from, []string{inv.ParticipantContact}, message)
}

func (s *SMTPReminderSender) String() string { return "smtp" }
