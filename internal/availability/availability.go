package availability

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/holiday"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

// Model отвечает на вопрос "рабочий ли это час/день".
// Праздник - отдельный сигнал для баннеров и предупреждений, он не отменяет рабочий день.
type Model struct {
	settings        model.AvailabilitySettings
	clock           *tzclock.Clock
	holidays        *holiday.Calendar
	bounds          model.WorkingBounds
	days            map[time.Weekday]bool
	excludeHolidays bool
}

// Advisory необязательное предупреждение для панели создания. Никогда не блокирует отправку.
type Advisory struct {
	OutsideWorkingHours bool   `json:"outside_working_hours"`
	Holiday             string `json:"holiday,omitempty"`
}

// HasWarning возвращает true, если есть что показать пользователю
func (a Advisory) HasWarning() bool {
	return a.OutsideWorkingHours || a.Holiday != ""
}

// New собирает модель доступности. Все ошибки конфигурации возвращаются здесь.
func New(settings model.AvailabilitySettings, holidays *holiday.Calendar) (*Model, error) {
	clock, err := tzclock.New(settings.Timezone)
	if err != nil {
		return nil, err
	}

	bounds, err := settings.Bounds()
	if err != nil {
		return nil, err
	}

	days, err := settings.Weekdays()
	if err != nil {
		return nil, err
	}

	return &Model{
		settings:        settings,
		clock:           clock,
		holidays:        holidays,
		bounds:          bounds,
		days:            days,
		excludeHolidays: settings.ExcludeHolidays,
	}, nil
}

// Settings возвращает настройки, из которых собрана модель
func (m *Model) Settings() model.AvailabilitySettings {
	return m.settings
}

// Clock возвращает часы часового пояса компании
func (m *Model) Clock() *tzclock.Clock {
	return m.clock
}

// WithClock возвращает копию модели с другими часами того же пояса (для тестов)
func (m *Model) WithClock(clock *tzclock.Clock) *Model {
	cp := *m
	cp.clock = clock
	return &cp
}

// Holidays возвращает календарь праздников
func (m *Model) Holidays() *holiday.Calendar {
	return m.holidays
}

// Bounds возвращает рабочие часы
func (m *Model) Bounds() model.WorkingBounds {
	return m.bounds
}

// IsWorkingHour проверяет start <= hour < end. Минуты границ не учитываются.
func (m *Model) IsWorkingHour(hour int) bool {
	return m.bounds.StartHour() <= hour && hour < m.bounds.EndHour()
}

// IsWorkingDay проверяет, входит ли день недели даты в рабочие дни
func (m *Model) IsWorkingDay(d tzclock.Date) bool {
	return m.days[d.Weekday()]
}

// IsWorkingDayAt проверяет рабочий день для момента в часовом поясе компании
func (m *Model) IsWorkingDayAt(t time.Time) bool {
	return m.days[m.clock.Weekday(t)]
}

// HolidayOn возвращает название праздника на дату
func (m *Model) HolidayOn(d tzclock.Date) (string, bool) {
	if m.holidays == nil {
		return "", false
	}
	return m.holidays.On(d)
}

// Advise вычисляет предупреждение для предлагаемого начала слота
func (m *Model) Advise(d tzclock.Date, startMinutes int) Advisory {
	advisory := Advisory{
		OutsideWorkingHours: !m.IsWorkingDay(d) || !m.IsWorkingHour(startMinutes/60),
	}

	if m.excludeHolidays {
		if name, ok := m.HolidayOn(d); ok {
			advisory.Holiday = name
		}
	}

	return advisory
}

// Label возвращает подпись рабочих часов с минутами
func (m *Model) Label() string {
	return fmt.Sprintf("%s–%s", tzclock.FormatMinutes(m.bounds.StartMinutes), tzclock.FormatMinutes(m.bounds.EndMinutes))
}
