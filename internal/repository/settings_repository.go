package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository хранит единственную строку настроек доступности
type SettingsRepository struct {
	*base.Repository
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{Repository: base.NewRepository(pool)}
}

// Get возвращает сохранённые настройки. nil, если строки ещё нет.
func (r *SettingsRepository) Get(ctx context.Context) (*model.AvailabilitySettings, error) {
	query := `
		SELECT timezone, to_char(working_hours_start, 'HH24:MI'), to_char(working_hours_end, 'HH24:MI'),
		       working_days, exclude_holidays
		FROM availability_settings
		WHERE id = 1
	`

	var s model.AvailabilitySettings
	err := r.QueryRow(ctx, query).Scan(
		&s.Timezone,
		&s.WorkingHoursStart,
		&s.WorkingHoursEnd,
		&s.WorkingDays,
		&s.ExcludeHolidays,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability settings: %w", err)
	}

	return &s, nil
}

// Save создаёт или заменяет строку настроек
func (r *SettingsRepository) Save(ctx context.Context, s model.AvailabilitySettings) error {
	query := `
		INSERT INTO availability_settings (id, timezone, working_hours_start, working_hours_end, working_days, exclude_holidays)
		VALUES (1, $1, $2::time, $3::time, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			working_hours_start = EXCLUDED.working_hours_start,
			working_hours_end = EXCLUDED.working_hours_end,
			working_days = EXCLUDED.working_days,
			exclude_holidays = EXCLUDED.exclude_holidays,
			updated_at = NOW()
	`

	_, err := r.ExecAffected(ctx, query,
		s.Timezone,
		s.WorkingHoursStart,
		s.WorkingHoursEnd,
		s.WorkingDays,
		s.ExcludeHolidays,
	)
	if err != nil {
		return fmt.Errorf("save availability settings: %w", err)
	}

	return nil
}
