package availability

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/holiday"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, settings model.AvailabilitySettings) *Model {
	t.Helper()
	cal, err := holiday.NewCalendar(4)
	require.NoError(t, err)
	m, err := New(settings, cal)
	require.NoError(t, err)
	return m
}

func TestIsWorkingHourBoundaries(t *testing.T) {
	pairs := []struct{ start, end string }{
		{"09:00", "18:00"},
		{"00:00", "23:00"},
		{"08:30", "17:30"},
		{"13:00", "14:00"},
	}

	for _, p := range pairs {
		settings := model.DefaultAvailabilitySettings()
		settings.WorkingHoursStart = p.start
		settings.WorkingHoursEnd = p.end
		m := newModel(t, settings)

		startHour := m.Bounds().StartHour()
		endHour := m.Bounds().EndHour()
		for h := 0; h < 24; h++ {
			want := startHour <= h && h < endHour
			assert.Equal(t, want, m.IsWorkingHour(h), "%s-%s hour %d", p.start, p.end, h)
		}
	}
}

func TestIsWorkingHourIgnoresMinutes(t *testing.T) {
	settings := model.DefaultAvailabilitySettings()
	settings.WorkingHoursEnd = "17:30"
	m := newModel(t, settings)

	assert.True(t, m.IsWorkingHour(16))
	assert.False(t, m.IsWorkingHour(17))
	assert.Equal(t, "09:00–17:30", m.Label())
}

func TestIsWorkingDay(t *testing.T) {
	m := newModel(t, model.DefaultAvailabilitySettings())

	assert.True(t, m.IsWorkingDay(tzclock.NewDate(2026, time.October, 13)))  // вторник
	assert.False(t, m.IsWorkingDay(tzclock.NewDate(2026, time.October, 17))) // суббота

	// Праздник не отменяет рабочий день
	columbus := tzclock.NewDate(2026, time.October, 12)
	assert.True(t, m.IsWorkingDay(columbus))
	name, ok := m.HolidayOn(columbus)
	assert.True(t, ok)
	assert.Equal(t, "Columbus Day", name)
}

func TestIsWorkingDayAtUsesTimezone(t *testing.T) {
	settings := model.DefaultAvailabilitySettings()
	settings.Timezone = "Asia/Tokyo"
	m := newModel(t, settings)

	// Пятница 20:00 UTC - это уже суббота в Токио
	friEvening := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)
	assert.False(t, m.IsWorkingDayAt(friEvening))
}

func TestAdvise(t *testing.T) {
	m := newModel(t, model.DefaultAvailabilitySettings())

	tests := []struct {
		name    string
		date    tzclock.Date
		minutes int
		want    Advisory
	}{
		{"tuesday morning", tzclock.NewDate(2026, time.October, 13), 615, Advisory{}},
		{"saturday", tzclock.NewDate(2026, time.October, 17), 615, Advisory{OutsideWorkingHours: true}},
		{"early", tzclock.NewDate(2026, time.October, 13), 7 * 60, Advisory{OutsideWorkingHours: true}},
		{"end hour", tzclock.NewDate(2026, time.October, 13), 18 * 60, Advisory{OutsideWorkingHours: true}},
		{"holiday", tzclock.NewDate(2026, time.October, 12), 600, Advisory{Holiday: "Columbus Day"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Advise(tt.date, tt.minutes)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != Advisory{}, got.HasWarning())
		})
	}
}

func TestAdviseHolidaysNotExcluded(t *testing.T) {
	settings := model.DefaultAvailabilitySettings()
	settings.ExcludeHolidays = false
	m := newModel(t, settings)

	got := m.Advise(tzclock.NewDate(2026, time.October, 12), 600)
	assert.False(t, got.HasWarning())
}

func TestNewConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.AvailabilitySettings)
		target error
	}{
		{"bad timezone", func(s *model.AvailabilitySettings) { s.Timezone = "Nowhere/Land" }, tzclock.ErrUnknownTimezone},
		{"inverted hours", func(s *model.AvailabilitySettings) { s.WorkingHoursStart = "18:00"; s.WorkingHoursEnd = "09:00" }, model.ErrInvalidWorkingHours},
		{"same hour", func(s *model.AvailabilitySettings) { s.WorkingHoursStart = "09:00"; s.WorkingHoursEnd = "09:45" }, model.ErrInvalidWorkingHours},
		{"bad day", func(s *model.AvailabilitySettings) { s.WorkingDays = []string{"monday", "caturday"} }, model.ErrInvalidWorkingDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := model.DefaultAvailabilitySettings()
			tt.mutate(&settings)
			_, err := New(settings, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.Error(t, settings.Validate())
		})
	}
}
