package rsvp

import (
	"time"

	"github.com/avelasco/rsvp-api/internal/models"
)

// DefaultReminderWindowDays is how many days before the event the reminder
// window opens. The window stays open through the event day itself.
const DefaultReminderWindowDays = 3

// ReminderPolicy decides whether a pending invitation is due a reminder. It
// is pure: no clock, no storage, every input is a parameter.
type ReminderPolicy struct {
	WindowDays int
}

func NewReminderPolicy(windowDays int) ReminderPolicy {
	if windowDays <= 0 {
		windowDays = DefaultReminderWindowDays
	}
	return ReminderPolicy{WindowDays: windowDays}
}

// IsDue applies the gates in order; all must pass. An unparsable or missing
// event date fails gate two silently: one malformed record must never abort
// an evaluation pass, so the defensive answer is "not due", not an error.
func (p ReminderPolicy) IsDue(inv models.Invitation, now time.Time, prior []models.Reminder) bool {
	if !inv.IsPending() {
		return false
	}

	days, err := inv.DaysUntilEvent(now)
	if err != nil {
		return false
	}
	if days < 0 {
		// Lapsed events are never reminded.
		return false
	}

	if sentOnOrAfter(prior, inv.Token, models.StartOfDay(now)) {
		return false
	}

	return days <= p.WindowDays
}

// sentOnOrAfter reports whether any prior reminder for the token was sent at
// or after the given instant. Entries for other tokens are ignored so callers
// may pass an unfiltered slice.
func sentOnOrAfter(prior []models.Reminder, token string, cutoff time.Time) bool {
	for _, r := range prior {
		if r.InvitationToken != token {
			continue
		}
		if !r.SentAt.Before(cutoff) {
			return true
		}
	}
	return false
}
