package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/availability"
	"github.com/Freeeeeet/schedule_grid/internal/grid"
	"github.com/Freeeeeet/schedule_grid/internal/holiday"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/render"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

func main() {
	settings := model.DefaultAvailabilitySettings()

	holidays, err := holiday.NewCalendar(2)
	if err != nil {
		fmt.Printf("Ошибка создания календаря праздников: %v\n", err)
		os.Exit(1)
	}

	avail, err := availability.New(settings, holidays)
	if err != nil {
		fmt.Printf("Ошибка настроек доступности: %v\n", err)
		os.Exit(1)
	}
	clock := avail.Clock()
	bounds := avail.Bounds()

	// Начинаем с понедельника текущей недели
	monday := clock.Today().StartOfWeek()

	// Создаем тестовые события
	events := []model.CalendarEvent{
		sampleEvent(clock, "1", "Intro call", monday, 9*60, 10*60, model.EventTypeCall, model.EventStatusScheduled),
		sampleEvent(clock, "2", "Demo", monday, 14*60, 15*60+30, model.EventTypeMeeting, model.EventStatusConfirmed),
		sampleEvent(clock, "3", "Follow up", monday.AddDays(1), 10*60, 10*60+15, model.EventTypeFollowUp, model.EventStatusPendingConfirmation),
		// Пересекающиеся события во вторник
		sampleEvent(clock, "4", "Callback", monday.AddDays(1), 16*60, 17*60, model.EventTypeCallback, model.EventStatusRescheduled),
		sampleEvent(clock, "5", "Retry", monday.AddDays(1), 16*60+30, 17*60+30, model.EventTypeNoShowRetry, model.EventStatusNoShow),
		sampleEvent(clock, "6", "Visit", monday.AddDays(3), 11*60, 12*60, model.EventTypeAppointment, model.EventStatusCompleted),
		// Вне рабочего времени
		sampleEvent(clock, "7", "Late voicemail", monday.AddDays(4), 19*60, 19*60+45, model.EventTypeVoicemailFollowup, model.EventStatusScheduled),
	}

	o := orchestrator.New(avail, orchestrator.Options{
		Window: grid.WorkingWindow(bounds.StartHour(), bounds.EndHour()),
	})
	o.SetViewDate(monday)
	o.SetEvents(events)

	fmt.Printf("Генерация изображения недели %s, событий: %d\n", monday, len(events))

	// Генерируем изображение
	imageData, err := render.WeekImage(o.Snapshot(), bounds)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	// Сохраняем в файл
	filename := "test_week_schedule.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Изображение сохранено в %s (%d байт)\n", filename, len(imageData))

	// Та же неделя в iCalendar
	icsData, err := render.ICS(events, time.Now())
	if err != nil {
		fmt.Printf("Ошибка генерации календаря: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("test_week_schedule.ics", icsData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Календарь сохранён в test_week_schedule.ics")
}

func sampleEvent(clock *tzclock.Clock, id, title string, day tzclock.Date, startMin, endMin int, typ model.EventType, status model.EventStatus) model.CalendarEvent {
	return model.CalendarEvent{
		ID:        id,
		Title:     title,
		StartTime: clock.Instant(day, startMin),
		EndTime:   clock.Instant(day, endMin),
		EventType: typ,
		Status:    status,
		Source:    model.EventSourceManual,
	}
}
