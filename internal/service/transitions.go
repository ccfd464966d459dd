package service

import (
	"fmt"

	"github.com/Freeeeeet/schedule_grid/internal/model"
)

const confirmationConfirmed = "confirmed"

// допустимые исходные статусы для действий; nil - любой нетерминальный
var allowedFrom = map[model.EventAction]map[model.EventStatus]bool{
	model.EventActionConfirm: {
		model.EventStatusScheduled:           true,
		model.EventStatusPendingConfirmation: true,
		model.EventStatusRescheduled:         true,
	},
	model.EventActionNoShow: {
		model.EventStatusScheduled:   true,
		model.EventStatusConfirmed:   true,
		model.EventStatusRescheduled: true,
	},
	model.EventActionCancel:     nil,
	model.EventActionReschedule: nil,
}

// ApplyAction применяет действие к событию. Событие изменяется только при успехе.
func ApplyAction(ev *model.CalendarEvent, req model.UpdateEventRequest) error {
	if !req.Action.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	if ev.Status.Terminal() {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, req.Action, ev.Status)
	}
	if from := allowedFrom[req.Action]; from != nil && !from[ev.Status] {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, req.Action, ev.Status)
	}

	switch req.Action {
	case model.EventActionConfirm:
		ev.Status = model.EventStatusConfirmed
		ev.ConfirmationStatus = confirmationConfirmed

	case model.EventActionCancel:
		ev.Status = model.EventStatusCancelled

	case model.EventActionNoShow:
		ev.Status = model.EventStatusNoShow

	case model.EventActionReschedule:
		if req.NewStartTime == nil || req.NewEndTime == nil {
			return fmt.Errorf("%w: reschedule needs new start and end", ErrInvalidTimeRange)
		}
		if !req.NewEndTime.After(*req.NewStartTime) {
			return ErrInvalidTimeRange
		}
		ev.StartTime = *req.NewStartTime
		ev.EndTime = *req.NewEndTime
		ev.Status = model.EventStatusRescheduled
	}

	return nil
}
