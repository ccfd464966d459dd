package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/schedule_grid/internal/controller/callbacks"
	"github.com/Freeeeeet/schedule_grid/internal/controller/handlers"
	"github.com/Freeeeeet/schedule_grid/internal/service"
	"github.com/Freeeeeet/schedule_grid/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	schedulingService *service.SchedulingService,
	sessions *session.Manager,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(schedulingService, sessions, logger)

	callbackHandler := &callbacks.Handler{
		Service:     schedulingService,
		Logger:      logger,
		WithSession: cmdHandlers.WithSession,
		SendView:    cmdHandlers.SendView,
	}

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

type command struct {
	pattern string
	match   bot.MatchType
	handle  bot.HandlerFunc
}

// RegisterHandlers регистрирует команды, нажатия на кнопки и меню бота
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	h := c.handlers
	commands := []command{
		{"/start", bot.MatchTypeExact, h.HandleStart},
		{"/help", bot.MatchTypeExact, h.HandleHelp},
		{"/week", bot.MatchTypeExact, h.HandleWeek},
		{"/month", bot.MatchTypeExact, h.HandleMonth},
		{"/today", bot.MatchTypeExact, h.HandleToday},
		{"/agenda", bot.MatchTypeExact, h.HandleAgenda},
		// с аргументами
		{"/holidays", bot.MatchTypePrefix, h.HandleHolidays},
		{"/filter", bot.MatchTypePrefix, h.HandleFilter},
	}
	for _, cmd := range commands {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, cmd.pattern, cmd.match, cmd.handle)
	}

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)
	c.logger.Info("Bot handlers registered", zap.Int("commands", len(commands)))

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "week", Description: "🗓 Неделя"},
		{Command: "month", Description: "📅 Месяц"},
		{Command: "today", Description: "📍 Сегодня"},
		{Command: "agenda", Description: "📋 Список на две недели"},
		{Command: "holidays", Description: "🎉 Праздники"},
		{Command: "filter", Description: "🔎 Фильтр по типам событий"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	if _, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}
	c.logger.Info("✅ Bot commands menu set", zap.Int("count", len(commands)))
	return nil
}

// Start блокируется, пока ctx не отменён
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Bot polling started")
	c.bot.Start(ctx)
	c.logger.Info("Bot polling stopped")
	return nil
}
