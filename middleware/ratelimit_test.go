package middleware

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenLimiter(capacity int) (*ActorLimiter, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewActorLimiter(capacity)
	limiter.now = func() time.Time { return now }
	return limiter, &now
}

func TestBucketRejectsAfterCapacityWithZeroElapsedTime(t *testing.T) {
	const capacity = 5
	limiter, _ := frozenLimiter(capacity)

	for i := 0; i < capacity; i++ {
		require.True(t, limiter.Allow(42), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow(42), "request capacity+1 should be rejected")
}

func TestBucketRefillsAfterSixtySeconds(t *testing.T) {
	const capacity = 5
	limiter, now := frozenLimiter(capacity)

	for i := 0; i < capacity+1; i++ {
		limiter.Allow(42)
	}

	*now = now.Add(60 * time.Second)
	assert.True(t, limiter.Allow(42))
}

func TestBucketRefillIsContinuous(t *testing.T) {
	const capacity = 60
	limiter, now := frozenLimiter(capacity)

	for i := 0; i < capacity; i++ {
		limiter.Allow(7)
	}
	require.False(t, limiter.Allow(7))

	// 60 tokens per minute means one second buys one token back
	*now = now.Add(time.Second)
	assert.True(t, limiter.Allow(7))
	assert.False(t, limiter.Allow(7))
}

func TestBucketsAreIndependentPerActor(t *testing.T) {
	limiter, _ := frozenLimiter(1)

	require.True(t, limiter.Allow(1))
	require.False(t, limiter.Allow(1))
	assert.True(t, limiter.Allow(2))
}

type rateLimitRecorder struct {
	sent []tgbotapi.Chattable
}

func (r *rateLimitRecorder) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, nil
}

func (r *rateLimitRecorder) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestRateLimitMiddlewareShortCircuits(t *testing.T) {
	limiter, _ := frozenLimiter(1)
	api := &rateLimitRecorder{}

	invoked := 0
	handler := Chain(func(update tgbotapi.Update) error {
		invoked++
		return nil
	}, RateLimit(api, limiter))

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 9},
		Chat: &tgbotapi.Chat{ID: 100},
	}}

	require.NoError(t, handler(update))
	require.NoError(t, handler(update))

	assert.Equal(t, 1, invoked, "second request must not reach the handler")
	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Please wait a moment")
}
