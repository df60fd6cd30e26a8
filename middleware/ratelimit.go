package middleware

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// ActorLimiter keeps one token bucket per actor: capacity tokens, refilled
// continuously at capacity per minute. Buckets are created on first sight
// of an actor and never evicted.
type ActorLimiter struct {
	mu       sync.Mutex
	capacity int
	buckets  map[int64]*rate.Limiter
	now      func() time.Time
}

func NewActorLimiter(capacity int) *ActorLimiter {
	return &ActorLimiter{
		capacity: capacity,
		buckets:  make(map[int64]*rate.Limiter),
		now:      time.Now,
	}
}

// Allow consumes one token for the actor if available.
func (l *ActorLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[userID]
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(float64(l.capacity)/60.0), l.capacity)
		l.buckets[userID] = bucket
	}
	now := l.now()
	l.mu.Unlock()
	return bucket.AllowN(now, 1)
}

// RateLimit short-circuits handlers for actors that are out of tokens.
func RateLimit(api Responder, limiter *ActorLimiter) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(update tgbotapi.Update) error {
			user := update.SentFrom()
			if user != nil && !limiter.Allow(user.ID) {
				if chat := update.FromChat(); chat != nil {
					api.Send(tgbotapi.NewMessage(chat.ID, "⏳ Please wait a moment before making another request."))
				}
				return nil
			}
			return next(update)
		}
	}
}
