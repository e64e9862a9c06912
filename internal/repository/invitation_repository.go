package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/avelasco/rsvp-api/internal/models"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv models.Invitation) (models.Invitation, error)
	GetByToken(ctx context.Context, token string) (models.Invitation, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Invitation, error)
	ListPending(ctx context.Context) ([]models.Invitation, error)
	UpdateStatus(ctx context.Context, token string, status models.ResponseStatus, respondedAt time.Time) (models.Invitation, error)
}

type invitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

const invitationColumns = `token, event_id, event_name, event_date, event_time,
	participant_id, participant_name, participant_contact, status, created_at, response_time`

func (r *invitationRepository) Create(ctx context.Context, inv models.Invitation) (models.Invitation, error) {
	const query = `
		INSERT INTO invitations (token, event_id, event_name, event_date, event_time,
			participant_id, participant_name, participant_contact, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + invitationColumns + `;
	`

	row := r.db.QueryRowContext(ctx, query,
		inv.Token,
		inv.EventID,
		inv.EventName,
		inv.EventDate,
		inv.EventTime,
		inv.ParticipantID,
		inv.ParticipantName,
		inv.ParticipantContact,
		inv.Status,
		inv.CreatedAt,
	)
	return scanInvitation(row)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (models.Invitation, error) {
	const query = `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE token = $1;
	`
	return scanInvitation(r.db.QueryRowContext(ctx, query, token))
}

func (r *invitationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Invitation, error) {
	const query = `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE event_id = $1
		ORDER BY created_at ASC;
	`
	return r.list(ctx, query, eventID)
}

func (r *invitationRepository) ListPending(ctx context.Context) ([]models.Invitation, error) {
	const query = `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE status = $1
		ORDER BY created_at ASC;
	`
	return r.list(ctx, query, models.StatusPending)
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, token string, status models.ResponseStatus, respondedAt time.Time) (models.Invitation, error) {
	const query = `
		UPDATE invitations
		SET status = $2, response_time = $3
		WHERE token = $1
		RETURNING ` + invitationColumns + `;
	`
	return scanInvitation(r.db.QueryRowContext(ctx, query, token, status, respondedAt))
}

func (r *invitationRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}

func scanInvitation(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Invitation, error) {
	var (
		inv          models.Invitation
		responseTime sql.NullTime
	)
	if err := scanner.Scan(
		&inv.Token,
		&inv.EventID,
		&inv.EventName,
		&inv.EventDate,
		&inv.EventTime,
		&inv.ParticipantID,
		&inv.ParticipantName,
		&inv.ParticipantContact,
		&inv.Status,
		&inv.CreatedAt,
		&responseTime,
	); err != nil {
		return models.Invitation{}, err
	}
	if responseTime.Valid {
		t := responseTime.Time
		inv.ResponseTime = &t
	}
	return inv, nil
}
