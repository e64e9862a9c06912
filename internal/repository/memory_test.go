package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasco/rsvp-api/internal/models"
)

func TestMemoryInvitationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryInvitationRepository()

	_, err := repo.GetByToken(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = repo.UpdateStatus(ctx, "missing", models.StatusConfirmed, time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.Local)
	for i, pid := range []string{"p-1", "p-2"} {
		_, err := repo.Create(ctx, models.Invitation{
			Token:         "tok-" + pid,
			EventID:       "ev-1",
			ParticipantID: pid,
			Status:        models.StatusPending,
			CreatedAt:     now.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	byEvent, err := repo.ListByEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	updated, err := repo.UpdateStatus(ctx, "tok-p-1", models.StatusConfirmed, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	require.NotNil(t, updated.ResponseTime)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "tok-p-2", pending[0].Token)
}

func TestMemoryEventRepository_UpsertMerges(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEventRepository()

	_, err := repo.GetByID(ctx, "ev-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	inv := models.Invitation{
		Token:         "tok-1",
		EventID:       "ev-1",
		EventName:     "Party",
		EventDate:     "2026-05-13",
		EventTime:     "19:00",
		ParticipantID: "p-1",
		Status:        models.StatusPending,
	}

	ev, err := repo.UpsertParticipant(ctx, inv, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "Party", ev.EventName)
	assert.Equal(t, models.StatusConfirmed, ev.Participants["p-1"])

	inv2 := inv
	inv2.ParticipantID = "p-2"
	ev, err = repo.UpsertParticipant(ctx, inv2, models.StatusDeclined)
	require.NoError(t, err)
	assert.Len(t, ev.Participants, 2)

	// Overwrite of an existing entry.
	ev, err = repo.UpsertParticipant(ctx, inv, models.StatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, ev.Participants["p-1"])

	// Returned maps are copies, not views of internal state.
	ev.Participants["p-1"] = models.StatusPending
	fresh, err := repo.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, fresh.Participants["p-1"])
}

func TestMemoryReminderRepository_ListSince(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReminderRepository()

	base := time.Date(2026, 5, 10, 0, 0, 0, 0, time.Local)
	for _, offset := range []time.Duration{-24 * time.Hour, 2 * time.Hour, 5 * time.Hour} {
		_, err := repo.Create(ctx, models.Reminder{
			InvitationToken: "tok-1",
			EventID:         "ev-1",
			ParticipantID:   "p-1",
			SentAt:          base.Add(offset),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, models.Reminder{InvitationToken: "tok-2", SentAt: base.Add(time.Hour)})
	require.NoError(t, err)

	today, err := repo.ListSince(ctx, "tok-1", base)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.True(t, today[0].SentAt.Before(today[1].SentAt))

	all, err := repo.ListSince(ctx, "tok-1", base.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Len(t, repo.All(), 4)
}
