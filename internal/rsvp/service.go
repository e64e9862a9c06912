package rsvp

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/avelasco/rsvp-api/internal/models"
	"github.com/avelasco/rsvp-api/internal/notification"
	"github.com/avelasco/rsvp-api/internal/repository"
)

// CreateInvitationParams carries the required fields of a new invitation.
type CreateInvitationParams struct {
	EventID            string `json:"event_id"`
	EventName          string `json:"event_name"`
	EventDate          string `json:"event_date"`
	EventTime          string `json:"event_time"`
	ParticipantID      string `json:"participant_id"`
	ParticipantName    string `json:"participant_name"`
	ParticipantContact string `json:"participant_contact"`
}

// validate checks every required field is present and names the first missing
// one, in declaration order.
func (p CreateInvitationParams) validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"event_id", p.EventID},
		{"event_name", p.EventName},
		{"event_date", p.EventDate},
		{"event_time", p.EventTime},
		{"participant_id", p.ParticipantID},
		{"participant_name", p.ParticipantName},
		{"participant_contact", p.ParticipantContact},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

// PassStats summarizes one evaluation pass over the pending invitations.
type PassStats struct {
	Evaluated int `json:"evaluated"`
	Sent      int `json:"sent"`
}

// EventReminderStats summarizes an operator-triggered sweep of one event.
type EventReminderStats struct {
	TotalPending int `json:"total_pending"`
	Sent         int `json:"sent"`
}

// Service is the invitation lifecycle and reminder engine. Everything the
// HTTP layer and the scheduler need goes through here.
type Service interface {
	CreateInvitation(ctx context.Context, params CreateInvitationParams) (string, error)
	GetInvitation(ctx context.Context, token string) (models.Invitation, error)
	GetStatus(ctx context.Context, token string) (models.ResponseStatus, error)
	RecordResponse(ctx context.Context, token string, response models.ResponseStatus) (models.Invitation, error)
	GetEventParticipantStatuses(ctx context.Context, eventID string) (map[string]models.ResponseStatus, error)
	SendReminderNow(ctx context.Context, token string) (bool, error)
	SendEventRemindersNow(ctx context.Context, eventID string) (EventReminderStats, error)
	RunEvaluationPass(ctx context.Context) (PassStats, error)
}

type service struct {
	invitations repository.InvitationRepository
	events      repository.EventRepository
	reminders   repository.ReminderRepository
	sender      notification.ReminderSender
	policy      ReminderPolicy
	logger      zerolog.Logger
	now         func() time.Time

	// dispatchMu serializes the check-ledger-then-append step so a manual
	// reminder and a scheduler pass cannot both log a reminder for the same
	// invitation on the same day within this process.
	dispatchMu sync.Mutex
}

func NewService(
	invitations repository.InvitationRepository,
	events repository.EventRepository,
	reminders repository.ReminderRepository,
	sender notification.ReminderSender,
	policy ReminderPolicy,
	logger zerolog.Logger,
) Service {
	return &service{
		invitations: invitations,
		events:      events,
		reminders:   reminders,
		sender:      sender,
		policy:      policy,
		logger:      logger.With().Str("component", "rsvp_service").Logger(),
		now:         time.Now,
	}
}

func (s *service) CreateInvitation(ctx context.Context, params CreateInvitationParams) (string, error) {
	if err := params.validate(); err != nil {
		return "", err
	}

	inv := models.Invitation{
		Token:              uuid.NewString(),
		EventID:            params.EventID,
		EventName:          params.EventName,
		EventDate:          params.EventDate,
		EventTime:          params.EventTime,
		ParticipantID:      params.ParticipantID,
		ParticipantName:    params.ParticipantName,
		ParticipantContact: params.ParticipantContact,
		Status:             models.StatusPending,
		CreatedAt:          s.now(),
	}

	created, err := s.invitations.Create(ctx, inv)
	if err != nil {
		return "", storeErr("create invitation", err)
	}

	s.logger.Info().
		Str("token", created.Token).
		Str("event_id", created.EventID).
		Str("participant_id", created.ParticipantID).
		Msg("invitation created")
	return created.Token, nil
}

func (s *service) GetInvitation(ctx context.Context, token string) (models.Invitation, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invitation{}, ErrNotFound
		}
		return models.Invitation{}, storeErr("get invitation", err)
	}
	return inv, nil
}

func (s *service) GetStatus(ctx context.Context, token string) (models.ResponseStatus, error) {
	inv, err := s.GetInvitation(ctx, token)
	if err != nil {
		return "", err
	}
	return inv.Status, nil
}

// RecordResponse applies a participant's terminal answer and updates the
// event projection. Re-responding overwrites the previous answer; see the
// design notes for why that is deliberate.
func (s *service) RecordResponse(ctx context.Context, token string, response models.ResponseStatus) (models.Invitation, error) {
	if !models.IsValidResponse(response) {
		return models.Invitation{}, ErrInvalidResponse
	}

	if _, err := s.GetInvitation(ctx, token); err != nil {
		return models.Invitation{}, err
	}

	updated, err := s.invitations.UpdateStatus(ctx, token, response, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invitation{}, ErrNotFound
		}
		return models.Invitation{}, storeErr("update invitation status", err)
	}

	if _, err := s.events.UpsertParticipant(ctx, updated, response); err != nil {
		return models.Invitation{}, storeErr("update event projection", err)
	}

	s.logger.Info().
		Str("token", updated.Token).
		Str("event_id", updated.EventID).
		Str("status", string(updated.Status)).
		Msg("response recorded")
	return updated, nil
}

// GetEventParticipantStatuses derives the mapping straight from the
// invitation records, so participants who have not answered yet appear as
// pending. An event with no invitations yields an empty map, not an error.
func (s *service) GetEventParticipantStatuses(ctx context.Context, eventID string) (map[string]models.ResponseStatus, error) {
	invitations, err := s.invitations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr("list invitations by event", err)
	}

	participants := make(map[string]models.ResponseStatus, len(invitations))
	for _, inv := range invitations {
		participants[inv.ParticipantID] = inv.Status
	}
	return participants, nil
}

// SendReminderNow dispatches one reminder out-of-band. The operator asked
// explicitly, so the 3-day window does not apply; the per-day dedup and the
// pending gate still do.
func (s *service) SendReminderNow(ctx context.Context, token string) (bool, error) {
	inv, err := s.GetInvitation(ctx, token)
	if err != nil {
		return false, err
	}
	if !inv.IsPending() {
		return false, ErrAlreadyResponded
	}
	return s.dispatch(ctx, inv, s.now(), false)
}

// SendEventRemindersNow runs one policy evaluation over a single event's
// pending invitations. Unknown events (no invitations at all) are an error.
func (s *service) SendEventRemindersNow(ctx context.Context, eventID string) (EventReminderStats, error) {
	invitations, err := s.invitations.ListByEvent(ctx, eventID)
	if err != nil {
		return EventReminderStats{}, storeErr("list invitations by event", err)
	}
	if len(invitations) == 0 {
		return EventReminderStats{}, ErrNotFound
	}

	var stats EventReminderStats
	now := s.now()
	for _, inv := range invitations {
		if !inv.IsPending() {
			continue
		}
		stats.TotalPending++
		sent, err := s.dispatch(ctx, inv, now, true)
		if err != nil {
			s.logger.Error().Err(err).Str("token", inv.Token).Msg("reminder dispatch failed")
			continue
		}
		if sent {
			stats.Sent++
		}
	}
	return stats, nil
}

// RunEvaluationPass sweeps every pending invitation through the policy. A
// failure on one invitation is logged and skipped; it never aborts the rest
// of the batch.
func (s *service) RunEvaluationPass(ctx context.Context) (PassStats, error) {
	pending, err := s.invitations.ListPending(ctx)
	if err != nil {
		return PassStats{}, storeErr("list pending invitations", err)
	}

	var stats PassStats
	now := s.now()
	for _, inv := range pending {
		stats.Evaluated++
		sent, err := s.dispatch(ctx, inv, now, true)
		if err != nil {
			s.logger.Error().Err(err).
				Str("token", inv.Token).
				Str("event_id", inv.EventID).
				Msg("reminder evaluation failed, skipping invitation")
			continue
		}
		if sent {
			stats.Sent++
		}
	}

	s.logger.Info().Int("evaluated", stats.Evaluated).Int("sent", stats.Sent).Msg("evaluation pass complete")
	return stats, nil
}

// dispatch decides and, when due, records then hands off one reminder. With
// applyWindow the full policy runs; without it only the pending and per-day
// dedup gates apply (manual path). The ledger entry is written before the
// transport call: a delivery failure is logged but the attempt stands, which
// keeps the per-day guarantee even when the transport flaps.
func (s *service) dispatch(ctx context.Context, inv models.Invitation, now time.Time, applyWindow bool) (bool, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	startOfDay := models.StartOfDay(now)
	prior, err := s.reminders.ListSince(ctx, inv.Token, startOfDay)
	if err != nil {
		return false, storeErr("list prior reminders", err)
	}

	if applyWindow {
		if !s.policy.IsDue(inv, now, prior) {
			return false, nil
		}
	} else {
		if !inv.IsPending() || len(prior) > 0 {
			return false, nil
		}
	}

	reminder := models.Reminder{
		InvitationToken: inv.Token,
		EventID:         inv.EventID,
		ParticipantID:   inv.ParticipantID,
		SentAt:          now,
	}
	if _, err := s.reminders.Create(ctx, reminder); err != nil {
		return false, storeErr("record reminder", err)
	}

	if err := s.sender.SendReminder(ctx, inv); err != nil {
		s.logger.Warn().Err(err).
			Str("token", inv.Token).
			Str("participant_id", inv.ParticipantID).
			Msg("reminder transport failed")
	}
	return true, nil
}
