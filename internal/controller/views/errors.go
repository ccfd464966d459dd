package views

import (
	"errors"

	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/service"
)

var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrEventNotFound), errors.Is(err, orchestrator.ErrEventNotLoaded):
		return "❌ Событие не найдено"
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, orchestrator.ErrEventFinished):
		return "❌ Это действие недоступно для текущего статуса события"
	case errors.Is(err, service.ErrInvalidTimeRange):
		return "❌ Окончание должно быть позже начала"
	case errors.Is(err, service.ErrUnknownEventType):
		return "❌ Неизвестный тип события"
	case errors.Is(err, service.ErrUnknownAction), errors.Is(err, orchestrator.ErrInvalidAction):
		return "❌ Неизвестное действие"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
