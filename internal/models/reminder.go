package models

import "time"

// Reminder is one logged nudge attempt for a pending invitation. The log is
// append-only; entries are never updated or deleted. Delivery itself is the
// transport's problem, not recorded here.
type Reminder struct {
	ID              int64     `json:"id" db:"id"`
	InvitationToken string    `json:"invitation_token" db:"invitation_token"`
	EventID         string    `json:"event_id" db:"event_id"`
	ParticipantID   string    `json:"participant_id" db:"participant_id"`
	SentAt          time.Time `json:"sent_at" db:"sent_at"`
}
