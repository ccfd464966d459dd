package orchestrator

import (
	"github.com/Freeeeeet/schedule_grid/internal/availability"
	"github.com/Freeeeeet/schedule_grid/internal/gesture"
	"github.com/Freeeeeet/schedule_grid/internal/grid"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

type Mode string

const (
	ModeMonth  Mode = "month"
	ModeWeek   Mode = "week"
	ModeDay    Mode = "day"
	ModeAgenda Mode = "agenda"
)

// ParseMode разбирает режим просмотра
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeMonth, ModeWeek, ModeDay, ModeAgenda:
		return Mode(s), true
	}
	return "", false
}

const (
	monthGridCells    = 42
	daysInWeek        = 7
	defaultAgendaDays = 14
)

// MonthCell ячейка сетки месяца 6x7
type MonthCell struct {
	Date    tzclock.Date          `json:"date"`
	InMonth bool                  `json:"in_month"`
	IsToday bool                  `json:"is_today"`
	Holiday string                `json:"holiday,omitempty"`
	Events  []model.CalendarEvent `json:"events"`
}

// Column колонка дня для недельного и дневного видов
type Column struct {
	Date         tzclock.Date          `json:"date"`
	Holiday      string                `json:"holiday,omitempty"`
	IsWorkingDay bool                  `json:"is_working_day"`
	IsToday      bool                  `json:"is_today"`
	Events       []model.CalendarEvent `json:"events"`
	Blocks       []grid.Block          `json:"blocks"`

	spans []grid.Span
}

// AgendaDay группа событий одного дня в списке
type AgendaDay struct {
	Date    tzclock.Date          `json:"date"`
	Holiday string                `json:"holiday,omitempty"`
	Events  []model.CalendarEvent `json:"events"`
}

// NowIndicator линия текущего времени
type NowIndicator struct {
	Date    tzclock.Date `json:"date"`
	Minutes int          `json:"minutes"`
	Offset  float64      `json:"offset"`
	Visible bool         `json:"visible"`
}

type PanelKind string

const (
	PanelNone   PanelKind = ""
	PanelCreate PanelKind = "create"
	PanelView   PanelKind = "view"
)

// CreatePanel панель создания события, предзаполненная выделением
type CreatePanel struct {
	Selection       gesture.Selection     `json:"selection"`
	Date            string                `json:"date"`
	StartLabel      string                `json:"start"`
	DurationMinutes int                   `json:"duration_minutes"`
	Advisory        availability.Advisory `json:"advisory"`
	// Pending запрос на создание отправлен, ответа ещё нет
	Pending bool `json:"pending"`
}

// Panel открытая панель. Одновременно открыта максимум одна.
type Panel struct {
	Kind    PanelKind    `json:"kind"`
	Create  *CreatePanel `json:"create,omitempty"`
	EventID string       `json:"event_id,omitempty"`
}

// Snapshot состояние вида для отдачи клиенту
type Snapshot struct {
	Mode         Mode               `json:"mode"`
	ViewDate     tzclock.Date       `json:"view_date"`
	Timezone     string             `json:"timezone"`
	WorkingHours string             `json:"working_hours"`
	Window       grid.Window        `json:"window"`
	Month        []MonthCell        `json:"month,omitempty"`
	Columns      []Column           `json:"columns,omitempty"`
	Agenda       []AgendaDay        `json:"agenda,omitempty"`
	Panel        Panel              `json:"panel"`
	Now          NowIndicator       `json:"now"`
	SyncTargets  []model.SyncTarget `json:"sync_targets,omitempty"`
	Filter       []model.EventType  `json:"filter,omitempty"`
	Previews     []gesture.Preview  `json:"previews,omitempty"`
}
