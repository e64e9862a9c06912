package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/avelasco/rsvp-api/internal/models"
)

type ReminderRepository interface {
	// Create appends one entry to the reminder log. The log is append-only;
	// there is no update or delete.
	Create(ctx context.Context, reminder models.Reminder) (models.Reminder, error)
	// ListSince returns the reminders logged for the token at or after the
	// given instant, oldest first.
	ListSince(ctx context.Context, token string, since time.Time) ([]models.Reminder, error)
}

type reminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder models.Reminder) (models.Reminder, error) {
	const query = `
		INSERT INTO reminders (invitation_token, event_id, participant_id, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, invitation_token, event_id, participant_id, sent_at;
	`
	row := r.db.QueryRowContext(ctx, query,
		reminder.InvitationToken,
		reminder.EventID,
		reminder.ParticipantID,
		reminder.SentAt,
	)
	return scanReminder(row)
}

func (r *reminderRepository) ListSince(ctx context.Context, token string, since time.Time) ([]models.Reminder, error) {
	const query = `
		SELECT id, invitation_token, event_id, participant_id, sent_at
		FROM reminders
		WHERE invitation_token = $1 AND sent_at >= $2
		ORDER BY sent_at ASC;
	`

	rows, err := r.db.QueryContext(ctx, query, token, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}

func scanReminder(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Reminder, error) {
	var rem models.Reminder
	if err := scanner.Scan(
		&rem.ID,
		&rem.InvitationToken,
		&rem.EventID,
		&rem.ParticipantID,
		&rem.SentAt,
	); err != nil {
		return models.Reminder{}, err
	}
	return rem, nil
}
