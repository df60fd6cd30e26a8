package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandlerFunc processes one inbound update. Errors returned from a handler
// are converted to user-facing messages by the error boundary; they never
// escape the dispatch loop.
type HandlerFunc func(update tgbotapi.Update) error

// Middleware wraps a handler with a cross-cutting concern.
type Middleware func(HandlerFunc) HandlerFunc

// Responder is the outbound slice of the Telegram API the middleware
// needs: send a message or fire a raw request (callback answers).
// *tgbotapi.BotAPI satisfies it.
type Responder interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Chain composes middleware around a handler. The first middleware listed
// is the outermost, so Chain(h, a, b) runs a, then b, then h.
func Chain(h HandlerFunc, mw ...Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
