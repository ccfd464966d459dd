package callbacks

import (
	"context"

	"github.com/Freeeeeet/schedule_grid/internal/controller/views"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// answer закрывает "часики" на кнопке, text показывается как toast
func answer(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
		Text:            text,
	})
}

// answerError показывает ошибку во всплывающем окне
func answerError(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, err error) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
		Text:            views.ErrorMessage(err),
		ShowAlert:       true,
	})
}

// callbackMessage сообщение с клавиатурой, на которой нажали кнопку.
// Для недоступных (слишком старых) сообщений возвращает nil.
func callbackMessage(callback *models.CallbackQuery) *models.Message {
	return callback.Message.Message
}
