package models

// Event is the derived per-event view of participant responses. It is a
// projection over the invitations sharing an event id, created lazily on the
// first response and rebuildable from the invitation records at any time; the
// invitations remain the source of truth.
type Event struct {
	EventID      string                    `json:"event_id" db:"event_id"`
	EventName    string                    `json:"event_name" db:"event_name"`
	EventDate    string                    `json:"event_date" db:"event_date"`
	EventTime    string                    `json:"event_time" db:"event_time"`
	Participants map[string]ResponseStatus `json:"participants" db:"participants"`
}

// EventFromInvitation seeds a projection from one invitation's denormalized
// event fields.
func EventFromInvitation(inv Invitation) Event {
	return Event{
		EventID:      inv.EventID,
		EventName:    inv.EventName,
		EventDate:    inv.EventDate,
		EventTime:    inv.EventTime,
		Participants: map[string]ResponseStatus{inv.ParticipantID: inv.Status},
	}
}
