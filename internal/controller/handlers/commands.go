package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/schedule_grid/internal/controller/views"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это календарь событий компании. Время показывается в часовом поясе компании.\n\n"+
			"Доступные команды:\n"+
			"/week - Неделя\n"+
			"/month - Месяц\n"+
			"/today - Сегодня\n"+
			"/agenda - Список на две недели\n"+
			"/holidays - Праздники\n"+
			"/help - Справка",
		update.Message.From.FirstName,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   welcomeText,
	})

	h.showMode(ctx, b, update.Message.Chat.ID, orchestrator.ModeWeek)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/week - Неделя с событиями\n" +
		"/month - Сетка месяца\n" +
		"/today - Сегодняшний день\n" +
		"/agenda - События на 14 дней\n" +
		"/holidays [год] - Праздники года\n" +
		"/filter [типы] - Показывать только указанные типы событий, без аргументов - все\n\n" +
		"Нажмите на событие под календарём, чтобы подтвердить, отменить или отметить неявку."

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
}

// HandleWeek обрабатывает команду /week
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.showMode(ctx, b, update.Message.Chat.ID, orchestrator.ModeWeek)
}

// HandleMonth обрабатывает команду /month
func (h *Handlers) HandleMonth(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.showMode(ctx, b, update.Message.Chat.ID, orchestrator.ModeMonth)
}

// HandleAgenda обрабатывает команду /agenda
func (h *Handlers) HandleAgenda(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.showMode(ctx, b, update.Message.Chat.ID, orchestrator.ModeAgenda)
}

// HandleToday обрабатывает команду /today - дневной вид на сегодня
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	err := h.WithSession(ctx, chatID, func(o *orchestrator.Orchestrator) error {
		o.SetMode(orchestrator.ModeDay)
		o.Today()
		return nil
	})
	if err != nil {
		h.SendError(ctx, b, chatID, err)
		return
	}
	h.SendView(ctx, b, chatID)
}

// HandleHolidays обрабатывает команду /holidays [год]
func (h *Handlers) HandleHolidays(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	var text string
	err := h.WithSession(ctx, chatID, func(o *orchestrator.Orchestrator) error {
		year := o.ViewDate().Year
		if arg := commandArgs(update.Message.Text); len(arg) > 0 {
			parsed, err := strconv.Atoi(arg[0])
			if err != nil || parsed < 1 {
				return views.ErrInvalidFormat
			}
			year = parsed
		}
		text = views.HolidaysText(year, o.Availability().Holidays().Year(year))
		return nil
	})
	if err != nil {
		h.SendError(ctx, b, chatID, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
}

// HandleFilter обрабатывает команду /filter [типы...]
func (h *Handlers) HandleFilter(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	var types []model.EventType
	for _, arg := range commandArgs(update.Message.Text) {
		t := model.EventType(strings.ToLower(arg))
		if !t.Valid() {
			names := make([]string, 0, len(model.EventTypes))
			for _, known := range model.EventTypes {
				names = append(names, string(known))
			}
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("❌ Неизвестный тип %q. Доступные: %s", arg, strings.Join(names, ", ")),
			})
			return
		}
		types = append(types, t)
	}

	err := h.WithSession(ctx, chatID, func(o *orchestrator.Orchestrator) error {
		o.SetFilter(types...)
		return nil
	})
	if err != nil {
		h.SendError(ctx, b, chatID, err)
		return
	}

	h.logger.Info("Filter changed", zap.Int64("chat_id", chatID), zap.Int("types", len(types)))
	h.SendView(ctx, b, chatID)
}

func (h *Handlers) showMode(ctx context.Context, b *bot.Bot, chatID int64, mode orchestrator.Mode) {
	err := h.WithSession(ctx, chatID, func(o *orchestrator.Orchestrator) error {
		o.SetMode(mode)
		return nil
	})
	if err != nil {
		h.SendError(ctx, b, chatID, err)
		return
	}
	h.SendView(ctx, b, chatID)
}

// commandArgs возвращает аргументы после команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
