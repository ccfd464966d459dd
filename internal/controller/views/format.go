package views

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/holiday"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

// StatusDisplayInfo отображение статуса события
type StatusDisplayInfo struct {
	Emoji string
	Text  string
}

// StatusDisplay возвращает emoji и текст для статуса события
func StatusDisplay(status model.EventStatus) StatusDisplayInfo {
	displays := map[model.EventStatus]StatusDisplayInfo{
		model.EventStatusScheduled:           {"🗓", "Запланировано"},
		model.EventStatusConfirmed:           {"✅", "Подтверждено"},
		model.EventStatusPendingConfirmation: {"⏳", "Ожидает подтверждения"},
		model.EventStatusRescheduled:         {"🔁", "Перенесено"},
		model.EventStatusCompleted:           {"✔️", "Завершено"},
		model.EventStatusNoShow:              {"🚫", "Неявка"},
		model.EventStatusCancelled:           {"❌", "Отменено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplayInfo{"❓", "Неизвестно"}
}

var weekdayShort = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

var monthNames = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

func formatDay(d tzclock.Date) string {
	return fmt.Sprintf("%s %02d.%02d", weekdayShort[d.Weekday()], d.Day, int(d.Month))
}

func timeRange(clock *tzclock.Clock, ev model.CalendarEvent) string {
	start := clock.Civil(ev.StartTime)
	end := clock.Civil(ev.EndTime)
	return tzclock.FormatMinutes(start.Minutes()) + "–" + tzclock.FormatMinutes(end.Minutes())
}

// Caption подпись к виду: период, часовой пояс, рабочие часы
func Caption(snap orchestrator.Snapshot) string {
	var b strings.Builder

	switch snap.Mode {
	case orchestrator.ModeMonth:
		fmt.Fprintf(&b, "📅 <b>%s %d</b>\n", monthNames[snap.ViewDate.Month], snap.ViewDate.Year)
	case orchestrator.ModeAgenda:
		fmt.Fprintf(&b, "📋 <b>Список с %s</b>\n", formatDay(snap.ViewDate))
	case orchestrator.ModeDay:
		fmt.Fprintf(&b, "📅 <b>%s</b>\n", formatDay(snap.ViewDate))
	default:
		if len(snap.Columns) > 0 {
			fmt.Fprintf(&b, "📅 <b>%s – %s</b>\n", formatDay(snap.Columns[0].Date), formatDay(snap.Columns[len(snap.Columns)-1].Date))
		}
	}

	fmt.Fprintf(&b, "🌐 %s, рабочие часы %s", html.EscapeString(snap.Timezone), snap.WorkingHours)

	for _, col := range snap.Columns {
		if col.Holiday != "" {
			fmt.Fprintf(&b, "\n🎉 %s: %s", formatDay(col.Date), html.EscapeString(col.Holiday))
		}
	}

	return b.String()
}

// MonthText сетка месяца 6x7 моноширинным текстом. * - есть события, ! - праздник.
func MonthText(snap orchestrator.Snapshot) string {
	var b strings.Builder
	b.WriteString(Caption(snap))
	b.WriteString("\n\n<pre>")
	b.WriteString(" Пн  Вт  Ср  Чт  Пт  Сб  Вс\n")

	for i, cell := range snap.Month {
		mark := " "
		switch {
		case cell.Holiday != "" && cell.InMonth:
			mark = "!"
		case len(cell.Events) > 0:
			mark = "*"
		}

		day := fmt.Sprintf("%2d", cell.Date.Day)
		if !cell.InMonth {
			day = " ·"
		}
		if cell.IsToday {
			mark = "<"
		}
		fmt.Fprintf(&b, " %s%s", day, mark)

		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	b.WriteString("</pre>")

	var holidays []string
	for _, cell := range snap.Month {
		if cell.InMonth && cell.Holiday != "" {
			holidays = append(holidays, fmt.Sprintf("🎉 %02d.%02d %s", cell.Date.Day, int(cell.Date.Month), html.EscapeString(cell.Holiday)))
		}
	}
	if len(holidays) > 0 {
		b.WriteString("\n" + strings.Join(holidays, "\n"))
	}

	return b.String()
}

// AgendaText события по дням
func AgendaText(snap orchestrator.Snapshot, clock *tzclock.Clock) string {
	var b strings.Builder
	b.WriteString(Caption(snap))

	if len(snap.Agenda) == 0 {
		b.WriteString("\n\n📭 Нет событий")
		return b.String()
	}

	for _, day := range snap.Agenda {
		fmt.Fprintf(&b, "\n\n<b>%s</b>", formatDay(day.Date))
		if day.Holiday != "" {
			fmt.Fprintf(&b, " 🎉 %s", html.EscapeString(day.Holiday))
		}
		for _, ev := range day.Events {
			fmt.Fprintf(&b, "\n%s %s %s", StatusDisplay(ev.Status).Emoji, timeRange(clock, ev), html.EscapeString(ev.Title))
		}
	}

	return b.String()
}

// EventCard карточка события для панели просмотра
func EventCard(ev model.CalendarEvent, clock *tzclock.Clock) string {
	status := StatusDisplay(ev.Status)
	start := clock.Civil(ev.StartTime)

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", html.EscapeString(ev.Title))
	fmt.Fprintf(&b, "📅 %s, %s (%s)\n", formatDay(start.Date()), timeRange(clock, ev), FormatDuration(int(ev.Duration().Minutes())))
	fmt.Fprintf(&b, "🏷 %s\n", ev.EventType)
	fmt.Fprintf(&b, "%s %s", status.Emoji, status.Text)

	if ev.Contact != nil {
		fmt.Fprintf(&b, "\n👤 %s", html.EscapeString(ev.Contact.Name))
		if ev.Contact.Phone != "" {
			fmt.Fprintf(&b, ", %s", html.EscapeString(ev.Contact.Phone))
		}
	}
	if ev.Notes != "" {
		fmt.Fprintf(&b, "\n📝 %s", html.EscapeString(ev.Notes))
	}

	return b.String()
}

// HolidaysText список праздников года
func HolidaysText(year int, holidays []holiday.Holiday) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 <b>Праздники %d</b>\n", year)

	for _, h := range holidays {
		if h.Date.Year != year {
			continue
		}
		fmt.Fprintf(&b, "\n%s.%d %s", formatDay(h.Date), h.Date.Year, html.EscapeString(h.Name))
	}

	return b.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
