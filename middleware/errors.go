package middleware

import (
	"fmt"

	"tracker-bot/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrorBoundary converts handler errors and panics into a best-effort
// message to the actor. Callback updates get the error as a toast; message
// updates get a chat message. Nothing propagates past this point, so a
// failing handler cannot take down the dispatch loop.
func ErrorBoundary(api Responder) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(update tgbotapi.Update) error {
			defer func() {
				if r := recover(); r != nil {
					logging.Logger.Errorf("Event ID: HANDLER_PANIC, Description: Recovered from handler panic: %v", r)
					notifyActor(api, update, fmt.Sprintf("⚠️ Unexpected error: %v", r))
				}
			}()

			if err := next(update); err != nil {
				logging.Logger.Errorf("Event ID: HANDLER_ERROR, Description: Handler returned error: %v", err)
				notifyActor(api, update, fmt.Sprintf("⚠️ Unexpected error: %v", err))
			}
			return nil
		}
	}
}

func notifyActor(api Responder, update tgbotapi.Update, text string) {
	if update.CallbackQuery != nil {
		if _, err := api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, text)); err != nil {
			logging.Logger.Errorf("Event ID: ERROR_ACK_FAILED, Description: Error answering callback query: %v", err)
		}
		return
	}
	if chat := update.FromChat(); chat != nil {
		if _, err := api.Send(tgbotapi.NewMessage(chat.ID, text)); err != nil {
			logging.Logger.Errorf("Event ID: ERROR_SEND_FAILED, Description: Error sending error message: %v", err)
		}
	}
}
