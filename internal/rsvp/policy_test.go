package rsvp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avelasco/rsvp-api/internal/models"
)

func testInvitation(eventDate string, status models.ResponseStatus) models.Invitation {
	return models.Invitation{
		Token:              "tok-1",
		EventID:            "ev-1",
		EventName:          "Party",
		EventDate:          eventDate,
		EventTime:          "19:00",
		ParticipantID:      "p-1",
		ParticipantName:    "Ana",
		ParticipantContact: "ana@example.com",
		Status:             status,
	}
}

func dateOffset(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format(models.EventDateLayout)
}

func TestReminderPolicy_WindowBoundary(t *testing.T) {
	policy := NewReminderPolicy(3)
	now := time.Date(2026, 5, 10, 15, 30, 0, 0, time.Local)

	cases := []struct {
		name string
		days int
		due  bool
	}{
		{"event today", 0, true},
		{"one day out", 1, true},
		{"window edge at three days", 3, true},
		{"four days out", 4, false},
		{"yesterday", -1, false},
		{"long past", -30, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := testInvitation(dateOffset(now, tc.days), models.StatusPending)
			assert.Equal(t, tc.due, policy.IsDue(inv, now, nil))
		})
	}
}

func TestReminderPolicy_RespondedNeverDue(t *testing.T) {
	policy := NewReminderPolicy(3)
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.Local)

	for _, status := range []models.ResponseStatus{models.StatusConfirmed, models.StatusDeclined} {
		inv := testInvitation(dateOffset(now, 1), status)
		assert.False(t, policy.IsDue(inv, now, nil), "status %s must never be due", status)
	}
}

func TestReminderPolicy_BadDateIsNotDue(t *testing.T) {
	policy := NewReminderPolicy(3)
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.Local)

	for _, date := range []string{"", "not-a-date", "10/05/2026"} {
		inv := testInvitation(date, models.StatusPending)
		assert.False(t, policy.IsDue(inv, now, nil))
	}
}

func TestReminderPolicy_PerDayDedup(t *testing.T) {
	policy := NewReminderPolicy(3)
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.Local)
	inv := testInvitation(dateOffset(now, 2), models.StatusPending)

	sentToday := []models.Reminder{{InvitationToken: inv.Token, SentAt: now.Add(-2 * time.Hour)}}
	assert.False(t, policy.IsDue(inv, now, sentToday), "a reminder earlier today suppresses")

	atMidnight := []models.Reminder{{InvitationToken: inv.Token, SentAt: models.StartOfDay(now)}}
	assert.False(t, policy.IsDue(inv, now, atMidnight), "day boundary is inclusive")

	sentYesterday := []models.Reminder{{InvitationToken: inv.Token, SentAt: now.AddDate(0, 0, -1)}}
	assert.True(t, policy.IsDue(inv, now, sentYesterday), "yesterday's reminder does not suppress")

	otherToken := []models.Reminder{{InvitationToken: "tok-other", SentAt: now.Add(-time.Hour)}}
	assert.True(t, policy.IsDue(inv, now, otherToken), "other invitations' reminders are ignored")
}

func TestReminderPolicy_DefaultWindow(t *testing.T) {
	assert.Equal(t, DefaultReminderWindowDays, NewReminderPolicy(0).WindowDays)
	assert.Equal(t, 5, NewReminderPolicy(5).WindowDays)
}
