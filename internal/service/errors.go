package service

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidTimeRange  = errors.New("end time must be after start time")
	ErrUnknownEventType  = errors.New("unknown event type")
	ErrUnknownAction     = errors.New("unknown event action")
	ErrEmptyTitle        = errors.New("title is required")
	ErrContactNotFound   = errors.New("contact not found")
	ErrUnknownSyncTarget = errors.New("unknown sync target")
	ErrInvalidSettings   = errors.New("invalid availability settings")
)

// IsValidation проверяет, вызвана ли ошибка некорректным запросом
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidTransition,
		ErrInvalidTimeRange,
		ErrUnknownEventType,
		ErrUnknownAction,
		ErrEmptyTitle,
		ErrContactNotFound,
		ErrUnknownSyncTarget,
		ErrInvalidSettings,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
