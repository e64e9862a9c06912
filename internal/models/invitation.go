package models

import (
	"math"
	"time"
)

// EventDateLayout is the calendar-date format invitations carry. The event
// time is kept as free text for display and is never parsed.
const EventDateLayout = "2006-01-02"

type ResponseStatus string

const (
	StatusPending   ResponseStatus = "pending"
	StatusConfirmed ResponseStatus = "confirmed"
	StatusDeclined  ResponseStatus = "declined"
)

// IsTerminal reports whether the status is a participant's final answer.
func (s ResponseStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusDeclined
}

// IsValidResponse reports whether s is an acceptable value for a
// confirm/decline response. Pending is not a response.
func IsValidResponse(s ResponseStatus) bool {
	return s == StatusConfirmed || s == StatusDeclined
}

// Invitation is one participant's response record for one event. The token is
// the invitation's public identity: generated once at creation and never
// reused or rotated.
type Invitation struct {
	Token              string         `json:"token" db:"token"`
	EventID            string         `json:"event_id" db:"event_id"`
	EventName          string         `json:"event_name" db:"event_name"`
	EventDate          string         `json:"event_date" db:"event_date"`
	EventTime          string         `json:"event_time" db:"event_time"`
	ParticipantID      string         `json:"participant_id" db:"participant_id"`
	ParticipantName    string         `json:"participant_name" db:"participant_name"`
	ParticipantContact string         `json:"participant_contact" db:"participant_contact"`
	Status             ResponseStatus `json:"status" db:"status"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	ResponseTime       *time.Time     `json:"response_time,omitempty" db:"response_time"`
}

// IsPending reports whether the participant has not answered yet.
func (i Invitation) IsPending() bool {
	return i.Status == StatusPending
}

// ParseEventDate parses the invitation's calendar date.
func (i Invitation) ParseEventDate() (time.Time, error) {
	return time.Parse(EventDateLayout, i.EventDate)
}

// DaysUntilEvent returns the whole-day distance from now's calendar date to
// the event date. Negative when the event has passed. Time-of-day on either
// side is ignored.
func (i Invitation) DaysUntilEvent(now time.Time) (int, error) {
	parsed, err := i.ParseEventDate()
	if err != nil {
		return 0, err
	}
	// Pin both sides to local midnight so the division is exact regardless
	// of zone offsets or DST.
	eventDay := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	today := StartOfDay(now)
	return int(math.Round(eventDay.Sub(today).Hours() / 24)), nil
}

// StartOfDay truncates t to its local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
