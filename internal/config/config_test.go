package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"DB_DSN": "postgres://localhost/grid"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, "availability.yaml", cfg.AvailabilityFile)
	assert.Equal(t, 8, cfg.HolidayCacheSize)
	assert.False(t, cfg.BotEnabled())
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"missing dsn", map[string]string{}},
		{"bad cache size", map[string]string{"DB_DSN": "x", "HOLIDAY_CACHE_SIZE": "many"}},
		{"zero cache size", map[string]string{"DB_DSN": "x", "HOLIDAY_CACHE_SIZE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.values))
			assert.Error(t, err)
		})
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "availability.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAvailability(t *testing.T) {
	path := writeFile(t, `
timezone: Asia/Kathmandu
working_hours_start: "08:30"
working_hours_end: "17:30"
working_days: [sunday, monday, tuesday, wednesday, thursday]
exclude_holidays: false
`)

	settings, err := LoadAvailability(path)
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilitySettings{
		Timezone:          "Asia/Kathmandu",
		WorkingHoursStart: "08:30",
		WorkingHoursEnd:   "17:30",
		WorkingDays:       []string{"sunday", "monday", "tuesday", "wednesday", "thursday"},
		ExcludeHolidays:   false,
	}, settings)
}

func TestLoadAvailabilityDefaults(t *testing.T) {
	settings, err := LoadAvailability(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAvailabilitySettings(), settings)

	partial, err := LoadAvailability(writeFile(t, "timezone: Europe/Berlin\n"))
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", partial.Timezone)
	assert.Equal(t, "09:00", partial.WorkingHoursStart)
}

func TestLoadAvailabilityInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unknown timezone", "timezone: Mars/Olympus\n", tzclock.ErrUnknownTimezone},
		{"inverted hours", "working_hours_start: \"18:00\"\nworking_hours_end: \"09:00\"\n", model.ErrInvalidWorkingHours},
		{"same hour", "working_hours_start: \"09:00\"\nworking_hours_end: \"09:45\"\n", model.ErrInvalidWorkingHours},
		{"unknown weekday", "working_days: [monday, funday]\n", model.ErrInvalidWorkingDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAvailability(writeFile(t, tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := LoadAvailability(writeFile(t, "timezone: [not, a, string]\n"))
	assert.Error(t, err)
}
