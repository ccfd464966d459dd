package model

import "time"

type EventType string

const (
	EventTypeCall              EventType = "call"
	EventTypeFollowUp          EventType = "follow_up"
	EventTypeNoShowRetry       EventType = "no_show_retry"
	EventTypeMeeting           EventType = "meeting"
	EventTypeAppointment       EventType = "appointment"
	EventTypeCallback          EventType = "callback"
	EventTypeVoicemailFollowup EventType = "voicemail_followup"
)

// EventTypes все допустимые типы событий в порядке отображения
var EventTypes = []EventType{
	EventTypeCall,
	EventTypeFollowUp,
	EventTypeNoShowRetry,
	EventTypeMeeting,
	EventTypeAppointment,
	EventTypeCallback,
	EventTypeVoicemailFollowup,
}

// Valid проверяет, известен ли тип события
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

type EventStatus string

const (
	EventStatusScheduled           EventStatus = "scheduled"
	EventStatusConfirmed           EventStatus = "confirmed"
	EventStatusCompleted           EventStatus = "completed"
	EventStatusNoShow              EventStatus = "no_show"
	EventStatusCancelled           EventStatus = "cancelled"
	EventStatusRescheduled         EventStatus = "rescheduled"
	EventStatusPendingConfirmation EventStatus = "pending_confirmation"
)

// Terminal возвращает true для статусов, из которых нет переходов
func (s EventStatus) Terminal() bool {
	return s == EventStatusCancelled || s == EventStatusCompleted || s == EventStatusNoShow
}

type EventSource string

const (
	EventSourceManual           EventSource = "manual"
	EventSourceCampaign         EventSource = "campaign"
	EventSourceGoogleCalendar   EventSource = "google_calendar"
	EventSourceMicrosoftOutlook EventSource = "microsoft_outlook"
	EventSourceAIAgent          EventSource = "ai_agent"
	EventSourceFollowUpQueue    EventSource = "follow_up_queue"
	EventSourceWebhook          EventSource = "webhook"
)

// CalendarEvent одиночное событие календаря. Изменяется только целиком
// (подтверждение, отмена, неявка, перенос), никогда не удаляется.
type CalendarEvent struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	StartTime          time.Time   `json:"start_time"`
	EndTime            time.Time   `json:"end_time"`
	EventType          EventType   `json:"event_type"`
	Status             EventStatus `json:"status"`
	ConfirmationStatus string      `json:"confirmation_status"`
	Source             EventSource `json:"source"`
	ContactID          *string     `json:"contact_id"` // может быть nil
	Notes              string      `json:"notes"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	// Заполняется для отображения (не из таблицы событий)
	Contact *Contact `json:"contact,omitempty"`
}

// Duration возвращает длительность события
func (e *CalendarEvent) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Contact контакт для выбора в панели создания
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
