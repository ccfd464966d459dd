package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/schedule_grid/internal/controller/views"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Service *service.SchedulingService
	Logger  *zap.Logger

	// Функции из обработчика команд
	WithSession func(ctx context.Context, chatID int64, fn func(o *orchestrator.Orchestrator) error) error
	SendView    func(ctx context.Context, b *bot.Bot, chatID int64)
}

// HandleCallbackQuery точка входа для нажатий на inline кнопки
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	Route(ctx, b, update.CallbackQuery, h)
}

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	msg := callbackMessage(callback)
	if msg == nil {
		answerError(ctx, b, callback, views.ErrNoMessage)
		return
	}

	switch {
	case data == views.Noop:
		answer(ctx, b, callback, "")

	case data == views.NavPrev, data == views.NavNext, data == views.NavToday:
		handleNavigation(ctx, b, callback, msg, h)

	case strings.HasPrefix(data, views.SetMode):
		handleMode(ctx, b, callback, msg, h)

	case strings.HasPrefix(data, views.OpenEvent):
		handleOpenEvent(ctx, b, callback, msg, h)

	case strings.HasPrefix(data, views.Action):
		handleAction(ctx, b, callback, msg, h)

	case data == views.BackView:
		replaceWithView(ctx, b, callback, msg, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		answerError(ctx, b, callback, views.ErrInvalidFormat)
	}
}

func handleNavigation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, h *Handler) {
	err := h.WithSession(ctx, msg.Chat.ID, func(o *orchestrator.Orchestrator) error {
		switch callback.Data {
		case views.NavPrev:
			o.Prev()
		case views.NavNext:
			o.Next()
		default:
			o.Today()
		}
		return nil
	})
	if err != nil {
		answerError(ctx, b, callback, err)
		return
	}
	replaceWithView(ctx, b, callback, msg, h)
}

func handleMode(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, h *Handler) {
	mode, ok := orchestrator.ParseMode(strings.TrimPrefix(callback.Data, views.SetMode))
	if !ok {
		answerError(ctx, b, callback, views.ErrInvalidFormat)
		return
	}

	err := h.WithSession(ctx, msg.Chat.ID, func(o *orchestrator.Orchestrator) error {
		o.SetMode(mode)
		return nil
	})
	if err != nil {
		answerError(ctx, b, callback, err)
		return
	}
	replaceWithView(ctx, b, callback, msg, h)
}

func handleOpenEvent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, h *Handler) {
	eventID := strings.TrimPrefix(callback.Data, views.OpenEvent)

	var (
		ev   model.CalendarEvent
		text string
	)
	err := h.WithSession(ctx, msg.Chat.ID, func(o *orchestrator.Orchestrator) error {
		if err := o.OpenEvent(eventID); err != nil {
			return err
		}
		ev, _ = o.Event(eventID)
		text = views.EventCard(ev, o.Availability().Clock())
		return nil
	})
	if err != nil {
		answerError(ctx, b, callback, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: views.EventKeyboard(ev),
	})
	answer(ctx, b, callback, "")
}

// handleAction подтверждение, отмена или неявка. Запрос к сервису идёт без
// блокировки сессии, результат применяется вторым заходом.
func handleAction(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, h *Handler) {
	action, eventID, ok := views.ParseAction(callback.Data)
	if !ok {
		answerError(ctx, b, callback, views.ErrInvalidFormat)
		return
	}

	var req model.UpdateEventRequest
	err := h.WithSession(ctx, msg.Chat.ID, func(o *orchestrator.Orchestrator) error {
		var err error
		req, err = o.ActionRequest(eventID, action)
		return err
	})

	var updated *model.CalendarEvent
	if err == nil {
		updated, err = h.Service.UpdateEvent(ctx, req)
	}
	if err != nil {
		h.Logger.Warn("Event action failed",
			zap.String("event_id", eventID),
			zap.String("action", string(action)),
			zap.Error(err))
		answerError(ctx, b, callback, err)
		return
	}

	var text string
	err = h.WithSession(ctx, msg.Chat.ID, func(o *orchestrator.Orchestrator) error {
		o.CloseEvent(eventID)
		o.UpsertEvent(*updated)
		text = views.EventCard(*updated, o.Availability().Clock())
		return nil
	})
	if err != nil {
		answerError(ctx, b, callback, err)
		return
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: views.EventKeyboard(*updated),
	})
	answer(ctx, b, callback, views.StatusDisplay(updated.Status).Text)
}

// replaceWithView удаляет старое сообщение и отправляет текущий вид
func replaceWithView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, h *Handler) {
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
	h.SendView(ctx, b, msg.Chat.ID)
	answer(ctx, b, callback, "")
}
