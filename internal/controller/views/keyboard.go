package views

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"github.com/go-telegram/bot/models"
)

// ========================
// Callback Data Patterns
// ========================

const (
	Noop = "noop"

	NavPrev  = "nav:prev"
	NavNext  = "nav:next"
	NavToday = "nav:today"

	SetMode   = "mode:"  // mode:week
	OpenEvent = "event:" // event:<uuid>
	Action    = "act:"   // act:confirm:<uuid>
	BackView  = "back_to_view"
)

// maxEventButtons ограничение кнопок событий под видом
const maxEventButtons = 8

// ActionData собирает callback data для действия над событием
func ActionData(action model.EventAction, eventID string) string {
	return Action + string(action) + ":" + eventID
}

// ParseAction разбирает act:<action>:<id>
func ParseAction(data string) (model.EventAction, string, bool) {
	rest, ok := strings.CutPrefix(data, Action)
	if !ok {
		return "", "", false
	}
	action, id, ok := strings.Cut(rest, ":")
	if !ok || id == "" || !model.EventAction(action).Valid() {
		return "", "", false
	}
	return model.EventAction(action), id, true
}

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// ViewKeyboard навигация, переключение режимов и кнопки событий текущего вида
func ViewKeyboard(snap orchestrator.Snapshot, clock *tzclock.Clock) *models.InlineKeyboardMarkup {
	kb := NewBuilder()

	kb.Row(
		Button("◀️", NavPrev),
		Button("Сегодня", NavToday),
		Button("▶️", NavNext),
	)

	modes := []struct {
		mode  orchestrator.Mode
		label string
	}{
		{orchestrator.ModeMonth, "Месяц"},
		{orchestrator.ModeWeek, "Неделя"},
		{orchestrator.ModeDay, "День"},
		{orchestrator.ModeAgenda, "Список"},
	}
	row := make([]models.InlineKeyboardButton, 0, len(modes))
	for _, m := range modes {
		label := m.label
		if m.mode == snap.Mode {
			label = "• " + label
		}
		row = append(row, Button(label, SetMode+string(m.mode)))
	}
	kb.Row(row...)

	for i, ev := range snapshotEvents(snap) {
		if i == maxEventButtons {
			break
		}
		civil := clock.Civil(ev.StartTime)
		text := fmt.Sprintf("%s %s %s %s", StatusDisplay(ev.Status).Emoji, formatDay(civil.Date()), tzclock.FormatMinutes(civil.Minutes()), ev.Title)
		kb.Row(Button(truncate(text, 60), OpenEvent+ev.ID))
	}

	return kb.Build()
}

// EventKeyboard действия над событием. Терминальные статусы - только возврат.
func EventKeyboard(ev model.CalendarEvent) *models.InlineKeyboardMarkup {
	kb := NewBuilder()

	if !ev.Status.Terminal() {
		var row []models.InlineKeyboardButton
		switch ev.Status {
		case model.EventStatusScheduled, model.EventStatusPendingConfirmation, model.EventStatusRescheduled:
			row = append(row, Button("✅ Подтвердить", ActionData(model.EventActionConfirm, ev.ID)))
		}
		switch ev.Status {
		case model.EventStatusScheduled, model.EventStatusConfirmed, model.EventStatusRescheduled:
			row = append(row, Button("🚫 Неявка", ActionData(model.EventActionNoShow, ev.ID)))
		}
		row = append(row, Button("❌ Отменить", ActionData(model.EventActionCancel, ev.ID)))
		kb.Row(row...)
	}

	kb.Row(Button("⬅️ К календарю", BackView))
	return kb.Build()
}

// snapshotEvents события текущего вида по порядку
func snapshotEvents(snap orchestrator.Snapshot) []model.CalendarEvent {
	var events []model.CalendarEvent
	switch snap.Mode {
	case orchestrator.ModeMonth:
		return nil
	case orchestrator.ModeAgenda:
		for _, day := range snap.Agenda {
			events = append(events, day.Events...)
		}
	default:
		for _, col := range snap.Columns {
			events = append(events, col.Events...)
		}
	}
	return events
}
