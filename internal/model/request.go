package model

import "time"

type EventAction string

const (
	EventActionConfirm    EventAction = "confirm"
	EventActionCancel     EventAction = "cancel"
	EventActionNoShow     EventAction = "no_show"
	EventActionReschedule EventAction = "reschedule"
)

// Valid проверяет, известно ли действие
func (a EventAction) Valid() bool {
	switch a {
	case EventActionConfirm, EventActionCancel, EventActionNoShow, EventActionReschedule:
		return true
	}
	return false
}

// SyncTarget внешний календарь, в который дублируется созданное событие
type SyncTarget string

const (
	SyncTargetGoogle  SyncTarget = "google_calendar"
	SyncTargetOutlook SyncTarget = "microsoft_outlook"
)

// CreateEventRequest запрос внешнему сервису планирования на создание события
type CreateEventRequest struct {
	Title       string       `json:"title" binding:"required"`
	StartTime   time.Time    `json:"start_time" binding:"required"`
	EndTime     time.Time    `json:"end_time" binding:"required"`
	EventType   EventType    `json:"event_type" binding:"required"`
	ContactID   *string      `json:"contact_id,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
	SyncTargets []SyncTarget `json:"sync_targets,omitempty"`
}

// UpdateEventRequest запрос на переход статуса или перенос
type UpdateEventRequest struct {
	EventID      string      `json:"event_id"`
	Action       EventAction `json:"action" binding:"required"`
	NewStartTime *time.Time  `json:"new_start_time,omitempty"`
	NewEndTime   *time.Time  `json:"new_end_time,omitempty"`
}
