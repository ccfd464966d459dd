package handlers

import (
	"bytes"
	"context"
	"strconv"

	"github.com/Freeeeeet/schedule_grid/internal/controller/views"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/render"
	"github.com/Freeeeeet/schedule_grid/internal/service"
	"github.com/Freeeeeet/schedule_grid/internal/session"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	service  *service.SchedulingService
	sessions *session.Manager
	logger   *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	schedulingService *service.SchedulingService,
	sessions *session.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		service:  schedulingService,
		sessions: sessions,
		logger:   logger,
	}
}

// SessionID ключ сессии чата
func SessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// WithSession выполняет fn с оркестратором сессии чата
func (h *Handlers) WithSession(ctx context.Context, chatID int64, fn func(o *orchestrator.Orchestrator) error) error {
	s, _, err := h.sessions.GetOrCreate(ctx, SessionID(chatID))
	if err != nil {
		return err
	}
	return s.Do(fn)
}

// SendError отправляет пользовательское сообщение об ошибке
func (h *Handlers) SendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.logger.Error("Bot request failed", zap.Int64("chat_id", chatID), zap.Error(err))
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   views.ErrorMessage(err),
	})
}

// SendView перезагружает события текущего вида сессии и отправляет его:
// неделя и день - картинкой, месяц и список - текстом
func (h *Handlers) SendView(ctx context.Context, b *bot.Bot, chatID int64) {
	var (
		snap   orchestrator.Snapshot
		bounds model.WorkingBounds
		clock  *tzclock.Clock
	)

	err := h.WithSession(ctx, chatID, func(o *orchestrator.Orchestrator) error {
		if err := session.Refresh(ctx, o, h.service); err != nil {
			return err
		}
		snap = o.Snapshot()
		bounds = o.Availability().Bounds()
		clock = o.Availability().Clock()
		return nil
	})
	if err != nil {
		h.SendError(ctx, b, chatID, err)
		return
	}

	keyboard := views.ViewKeyboard(snap, clock)

	switch snap.Mode {
	case orchestrator.ModeMonth:
		h.sendText(ctx, b, chatID, views.MonthText(snap), keyboard)
		return
	case orchestrator.ModeAgenda:
		h.sendText(ctx, b, chatID, views.AgendaText(snap, clock), keyboard)
		return
	}

	imageData, err := render.WeekImage(snap, bounds)
	if err != nil {
		// Если не удалось сгенерировать изображение, отправляем текст
		h.logger.Warn("Failed to render week image", zap.Error(err))
		h.sendText(ctx, b, chatID, views.Caption(snap), keyboard)
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption:     views.Caption(snap),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
