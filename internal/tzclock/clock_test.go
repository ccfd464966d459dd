package tzclock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownTimezone(t *testing.T) {
	for _, tz := range []string{"", "Mars/Olympus_Mons", "  "} {
		_, err := New(tz)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownTimezone), "tz %q", tz)
	}
}

func TestCivilRoundTrip(t *testing.T) {
	zones := []string{
		"America/New_York",
		"Asia/Kolkata",         // +05:30
		"Asia/Kathmandu",       // +05:45
		"Australia/Lord_Howe",  // 30-minute DST shift
		"America/St_Johns",     // -03:30 with DST
		"UTC",
	}

	for _, tz := range zones {
		t.Run(tz, func(t *testing.T) {
			c := MustNew(tz)
			from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			to := from.AddDate(1, 0, 0)

			for ts := from; ts.Before(to); ts = ts.Add(15 * time.Minute) {
				civil := c.Civil(ts)
				back := c.Civil(c.InstantOf(civil))
				if back != civil {
					t.Fatalf("round trip %v: got %+v, want %+v", ts, back, civil)
				}

				viaDate := c.Civil(c.Instant(civil.Date(), civil.Minutes()))
				if viaDate != civil {
					t.Fatalf("date round trip %v: got %+v, want %+v", ts, viaDate, civil)
				}
			}
		})
	}
}

func TestCivilNonHourOffset(t *testing.T) {
	c := MustNew("Asia/Kolkata")
	ts := time.Date(2026, 10, 13, 18, 50, 0, 0, time.UTC)

	got := c.Civil(ts)
	assert.Equal(t, DateTime{Year: 2026, Month: time.October, Day: 14, Hour: 0, Minute: 20}, got)
	assert.Equal(t, "2026-10-14", c.DateString(ts))
	assert.Equal(t, "wednesday", c.WeekdayName(ts))
}

func TestMinutesInto(t *testing.T) {
	c := MustNew("America/New_York")
	day := NewDate(2026, time.October, 13)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"previous day", c.Instant(day.AddDays(-1), 23*60), 0},
		{"midnight", c.Instant(day, 0), 0},
		{"morning", c.Instant(day, 10*60+15), 615},
		{"next midnight", c.Instant(day.AddDays(1), 0), MinutesPerDay},
		{"next day", c.Instant(day.AddDays(1), 60), MinutesPerDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.MinutesInto(day, tt.at))
		})
	}
}

func TestDateHelpers(t *testing.T) {
	d, err := ParseDate("2026-10-17")
	require.NoError(t, err)

	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, "2026-10-12", d.StartOfWeek().String())
	assert.Equal(t, "2026-10-01", d.FirstOfMonth().String())
	assert.Equal(t, "2027-01-01", d.AddMonths(3).String())
	assert.Equal(t, "2026-11-01", NewDate(2026, time.October, 32).String())
	assert.Equal(t, 6, d.StartOfWeek().DaysUntil(d.AddDays(1)))

	sunday := NewDate(2026, time.October, 18)
	assert.Equal(t, "2026-10-12", sunday.StartOfWeek().String())

	_, err = ParseDate("17.10.2026")
	assert.Error(t, err)
}

func TestClockParsing(t *testing.T) {
	m, err := ParseClock("17:30")
	require.NoError(t, err)
	assert.Equal(t, 1050, m)
	assert.Equal(t, "17:30", FormatMinutes(m))

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	w, ok := ParseWeekday(" Tuesday ")
	assert.True(t, ok)
	assert.Equal(t, time.Tuesday, w)

	_, ok = ParseWeekday("funday")
	assert.False(t, ok)
}
