package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysUntilEvent(t *testing.T) {
	now := time.Date(2026, 5, 10, 23, 45, 0, 0, time.Local)

	cases := []struct {
		date string
		want int
	}{
		{"2026-05-10", 0},
		{"2026-05-11", 1},
		{"2026-05-13", 3},
		{"2026-05-09", -1},
		{"2026-06-10", 31},
	}
	for _, tc := range cases {
		inv := Invitation{EventDate: tc.date}
		got, err := inv.DaysUntilEvent(now)
		require.NoError(t, err, tc.date)
		assert.Equal(t, tc.want, got, "date %s", tc.date)
	}

	_, err := Invitation{EventDate: "13/05/2026"}.DaysUntilEvent(now)
	assert.Error(t, err)
	_, err = Invitation{}.DaysUntilEvent(now)
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 5, 10, 18, 22, 7, 999, time.Local)
	start := StartOfDay(ts)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.Local), start)
	assert.True(t, StartOfDay(start).Equal(start))
}

func TestResponseStatusHelpers(t *testing.T) {
	assert.True(t, IsValidResponse(StatusConfirmed))
	assert.True(t, IsValidResponse(StatusDeclined))
	assert.False(t, IsValidResponse(StatusPending))
	assert.False(t, IsValidResponse("maybe"))

	assert.True(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, Invitation{Status: StatusPending}.IsPending())
}
