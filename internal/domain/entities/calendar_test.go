package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarDaysBetween(t *testing.T) {
	moscow := time.FixedZone("UTC+03:00", 3*3600)

	tests := []struct {
		name string
		a, b time.Time
		loc  *time.Location
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 1, 23, 55, 0, 0, time.UTC),
			loc:  time.UTC,
			want: 0,
		},
		{
			name: "midnight crossed in local time",
			a:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC),
			loc:  moscow,
			want: 1,
		},
		{
			name: "backwards",
			a:    time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: -3,
		},
		{
			name: "across month end",
			a:    time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalendarDaysBetween(tt.a, tt.b, tt.loc))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	moscow := time.FixedZone("UTC+03:00", 3*3600)
	at := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), StartOfDay(at, nil))
	assert.True(t, time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC).Equal(StartOfDay(at, moscow)))
}
