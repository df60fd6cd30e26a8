package middleware

import (
	"fmt"

	"tracker-bot/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Authorized reports whether the actor may use the bot. A missing or empty
// username is always denied; Telegram handles are the only identity the
// allow-list speaks.
func Authorized(user *tgbotapi.User, allowed map[string]struct{}) bool {
	if user == nil || user.UserName == "" {
		return false
	}
	_, ok := allowed[user.UserName]
	return ok
}

// Deny tells the actor they are not allowed in. Callback-originated
// updates are additionally answered so the client drops its loading
// spinner.
func Deny(api Responder, update tgbotapi.Update) {
	user := update.SentFrom()
	chat := update.FromChat()

	var usernameStr string
	if user != nil && user.UserName != "" {
		usernameStr = fmt.Sprintf(" (@%s)", user.UserName)
	}
	var firstName string
	var userID int64
	if user != nil {
		firstName = user.FirstName
		userID = user.ID
	}
	denied := fmt.Sprintf("Sorry, user %s%s (ID: %d) is not authorized to use this bot.", firstName, usernameStr, userID)

	if chat != nil {
		if _, err := api.Send(tgbotapi.NewMessage(chat.ID, denied)); err != nil {
			logging.Logger.Errorf("Event ID: AUTH_DENY_SEND_FAILED, Description: Error sending unauthorized message: %v", err)
		}
	} else {
		logging.Logger.Warnf("Event ID: AUTH_DENIED_NO_CHAT, Description: %s", denied)
	}

	if update.CallbackQuery != nil {
		if _, err := api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "Unauthorized Access")); err != nil {
			logging.Logger.Errorf("Event ID: AUTH_DENY_ACK_FAILED, Description: Error answering callback query: %v", err)
		}
	}
}

// Auth gates a handler on the static allow-list. Allow has no side
// effects; deny stops the chain after messaging the actor.
func Auth(api Responder, allowed map[string]struct{}) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(update tgbotapi.Update) error {
			if Authorized(update.SentFrom(), allowed) {
				return next(update)
			}
			Deny(api, update)
			return nil
		}
	}
}
