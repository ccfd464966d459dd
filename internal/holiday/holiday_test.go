package holiday

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byName(holidays []Holiday) map[string]tzclock.Date {
	m := make(map[string]tzclock.Date, len(holidays))
	for _, h := range holidays {
		m[h.Name] = h.Date
	}
	return m
}

func TestForYearFloating(t *testing.T) {
	tests := []struct {
		year int
		want map[string]string
	}{
		{
			year: 2021,
			want: map[string]string{
				"Martin Luther King Jr. Day": "2021-01-18",
				"Presidents' Day":            "2021-02-15",
				"Memorial Day":               "2021-05-31",
				"Labor Day":                  "2021-09-06",
				"Columbus Day":               "2021-10-11",
				"Thanksgiving Day":           "2021-11-25",
			},
		},
		{
			year: 2026,
			want: map[string]string{
				"Martin Luther King Jr. Day": "2026-01-19",
				"Presidents' Day":            "2026-02-16",
				"Memorial Day":               "2026-05-25",
				"Labor Day":                  "2026-09-07",
				"Columbus Day":               "2026-10-12",
				"Thanksgiving Day":           "2026-11-26",
			},
		},
	}

	for _, tt := range tests {
		got := byName(ForYear(tt.year))
		for name, date := range tt.want {
			assert.Equal(t, date, got[name].String(), "%d %s", tt.year, name)
		}
	}
}

func TestForYearObserved(t *testing.T) {
	got := byName(ForYear(2021))

	// 2021: Juneteenth - суббота, 4 июля - воскресенье, Рождество - суббота
	assert.Equal(t, "2021-06-18", got["Juneteenth (Observed)"].String())
	assert.Equal(t, "2021-07-05", got["Independence Day (Observed)"].String())
	assert.Equal(t, "2021-12-24", got["Christmas Day (Observed)"].String())

	_, ok := got["Veterans Day (Observed)"]
	assert.False(t, ok, "Veterans Day 2021 is a Thursday")

	// 1 января 2022 - суббота, наблюдается 31 декабря 2021
	assert.Equal(t, "2021-12-31", byName(ForYear(2022))["New Year's Day (Observed)"].String())
}

func TestForYearProperties(t *testing.T) {
	for year := 1990; year <= 2060; year++ {
		holidays := ForYear(year)

		canonical := 0
		observed := make(map[string]int)
		for i, h := range holidays {
			if i > 0 {
				require.False(t, h.Date.Before(holidays[i-1].Date), "%d not ordered", year)
			}
			if !h.Observed {
				canonical++
				continue
			}
			base := strings.TrimSuffix(h.Name, observedSuffix)
			observed[base]++
		}
		require.Equal(t, 11, canonical, "year %d", year)

		canon := byName(holidays)
		for _, fh := range fixedHolidays {
			wd := canon[fh.name].Weekday()
			weekend := wd == time.Saturday || wd == time.Sunday
			if weekend {
				require.Equal(t, 1, observed[fh.name], "%d %s", year, fh.name)
			} else {
				require.Zero(t, observed[fh.name], "%d %s", year, fh.name)
			}
		}
	}
}

func TestNthAndLastWeekday(t *testing.T) {
	assert.Equal(t, "2026-10-01", nthWeekday(2026, time.October, time.Thursday, 1).String())
	assert.Equal(t, "2026-10-29", nthWeekday(2026, time.October, time.Thursday, 5).String())
	assert.True(t, nthWeekday(2026, time.February, time.Monday, 5).IsZero())
	assert.Equal(t, "2026-02-23", lastWeekday(2026, time.February, time.Monday).String())
}

func TestCalendarAroundAndOn(t *testing.T) {
	cal, err := NewCalendar(4)
	require.NoError(t, err)

	around := cal.Around(2022)
	assert.Equal(t, "New Year's Day (Observed)", around["2021-12-31"])
	assert.Equal(t, "Christmas Day", around["2023-12-25"])
	assert.Equal(t, "Columbus Day", around["2022-10-10"])

	name, ok := cal.On(tzclock.NewDate(2021, time.December, 31))
	require.True(t, ok)
	assert.Equal(t, "New Year's Day (Observed)", name)

	_, ok = cal.On(tzclock.NewDate(2026, time.October, 13))
	assert.False(t, ok)

	// повторный запрос идёт из кеша и возвращает те же данные
	assert.Equal(t, ForYear(2022), cal.Year(2022))
}

func TestJoinName(t *testing.T) {
	tests := []struct {
		names string
		name  string
		want  string
	}{
		{"", "Christmas Day", "Christmas Day"},
		{"Christmas Day", "Christmas Day", "Christmas Day"},
		// название-подстрока уже записанного - это другой праздник
		{"Christmas Day (Observed)", "Christmas Day", "Christmas Day (Observed), Christmas Day"},
		{"Christmas Day (Observed), Christmas Day", "Christmas Day", "Christmas Day (Observed), Christmas Day"},
		{"Juneteenth", "Flag Day", "Juneteenth, Flag Day"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinName(tt.names, tt.name), "%q + %q", tt.names, tt.name)
	}
}
