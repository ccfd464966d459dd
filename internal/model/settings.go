package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

var (
	ErrInvalidWorkingHours = errors.New("working hours start must be before end")
	ErrInvalidWorkingDay   = errors.New("unknown working day")
)

// AvailabilitySettings настройки доступности компании
type AvailabilitySettings struct {
	Timezone          string   `json:"timezone" yaml:"timezone"`
	WorkingHoursStart string   `json:"working_hours_start" yaml:"working_hours_start"` // HH:MM
	WorkingHoursEnd   string   `json:"working_hours_end" yaml:"working_hours_end"`     // HH:MM
	WorkingDays       []string `json:"working_days" yaml:"working_days"`
	ExcludeHolidays   bool     `json:"exclude_holidays" yaml:"exclude_holidays"`
}

// DefaultAvailabilitySettings возвращает настройки по умолчанию (Пн-Пт 09:00-18:00)
func DefaultAvailabilitySettings() AvailabilitySettings {
	return AvailabilitySettings{
		Timezone:          "America/New_York",
		WorkingHoursStart: "09:00",
		WorkingHoursEnd:   "18:00",
		WorkingDays:       []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		ExcludeHolidays:   true,
	}
}

// WorkingBounds разобранные границы рабочего дня в минутах от полуночи
type WorkingBounds struct {
	StartMinutes int
	EndMinutes   int
}

// StartHour возвращает час начала (минуты игнорируются)
func (b WorkingBounds) StartHour() int {
	return b.StartMinutes / 60
}

// EndHour возвращает час окончания (минуты игнорируются)
func (b WorkingBounds) EndHour() int {
	return b.EndMinutes / 60
}

// Bounds разбирает и проверяет рабочие часы
func (s AvailabilitySettings) Bounds() (WorkingBounds, error) {
	start, err := tzclock.ParseClock(s.WorkingHoursStart)
	if err != nil {
		return WorkingBounds{}, fmt.Errorf("working_hours_start: %w", err)
	}

	end, err := tzclock.ParseClock(s.WorkingHoursEnd)
	if err != nil {
		return WorkingBounds{}, fmt.Errorf("working_hours_end: %w", err)
	}

	// Сравнение по часам: минуты используются только в подписях
	if start/60 >= end/60 {
		return WorkingBounds{}, fmt.Errorf("%w: %s-%s", ErrInvalidWorkingHours, s.WorkingHoursStart, s.WorkingHoursEnd)
	}

	return WorkingBounds{StartMinutes: start, EndMinutes: end}, nil
}

// Weekdays разбирает рабочие дни
func (s AvailabilitySettings) Weekdays() (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool, len(s.WorkingDays))
	for _, name := range s.WorkingDays {
		wd, ok := tzclock.ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWorkingDay, name)
		}
		days[wd] = true
	}
	return days, nil
}

// Validate проверяет настройки целиком, включая часовой пояс
func (s AvailabilitySettings) Validate() error {
	if _, err := tzclock.New(s.Timezone); err != nil {
		return err
	}
	if _, err := s.Bounds(); err != nil {
		return err
	}
	if _, err := s.Weekdays(); err != nil {
		return err
	}
	return nil
}
