package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOf(t *testing.T) {
	kamchatka := time.FixedZone("UTC+12", 12*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "полдень UTC усекается до полуночи",
			in:   time.Date(2026, 9, 1, 12, 30, 45, 0, time.UTC),
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "локальное утро за датой UTC",
			in:   time.Date(2026, 9, 2, 9, 0, 0, 0, kamchatka),
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "полночь остаётся полуночью",
			in:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, DayOf(tc.in).Equal(tc.want))
		})
	}
}

func TestSubscriptionIsValid(t *testing.T) {
	sub := &Subscription{
		IsActive:  true,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, sub.IsValid(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)))
	assert.True(t, sub.IsValid(time.Date(2026, 9, 7, 23, 59, 0, 0, time.UTC)))
	assert.False(t, sub.IsValid(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, sub.IsValid(time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)))

	inactive := &Subscription{
		IsActive:  false,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
	}
	assert.False(t, inactive.IsValid(time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC)))
}
