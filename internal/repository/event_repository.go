package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/avelasco/rsvp-api/internal/models"
)

type EventRepository interface {
	GetByID(ctx context.Context, eventID string) (models.Event, error)
	// UpsertParticipant creates the event projection from the invitation's
	// denormalized fields when absent, or merges the (participant, status)
	// entry into the existing participant map, overwriting any prior entry.
	UpsertParticipant(ctx context.Context, inv models.Invitation, status models.ResponseStatus) (models.Event, error)
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetByID(ctx context.Context, eventID string) (models.Event, error) {
	const query = `
		SELECT event_id, event_name, event_date, event_time, participants
		FROM events
		WHERE event_id = $1;
	`
	return scanEvent(r.db.QueryRowContext(ctx, query, eventID))
}

func (r *eventRepository) UpsertParticipant(ctx context.Context, inv models.Invitation, status models.ResponseStatus) (models.Event, error) {
	const query = `
		INSERT INTO events (event_id, event_name, event_date, event_time, participants)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id)
		DO UPDATE SET participants = events.participants || EXCLUDED.participants
		RETURNING event_id, event_name, event_date, event_time, participants;
	`

	entry, err := json.Marshal(map[string]models.ResponseStatus{inv.ParticipantID: status})
	if err != nil {
		return models.Event{}, errors.Wrap(err, "marshal participant entry")
	}

	row := r.db.QueryRowContext(ctx, query,
		inv.EventID,
		inv.EventName,
		inv.EventDate,
		inv.EventTime,
		entry,
	)
	return scanEvent(row)
}

func scanEvent(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Event, error) {
	var (
		ev              models.Event
		participantsRaw []byte
	)
	if err := scanner.Scan(
		&ev.EventID,
		&ev.EventName,
		&ev.EventDate,
		&ev.EventTime,
		&participantsRaw,
	); err != nil {
		return models.Event{}, err
	}

	ev.Participants = map[string]models.ResponseStatus{}
	if len(participantsRaw) > 0 {
		if err := json.Unmarshal(participantsRaw, &ev.Participants); err != nil {
			return models.Event{}, errors.Wrap(err, "unmarshal participants")
		}
	}
	return ev, nil
}
