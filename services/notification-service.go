package services

import (
	"sync"

	"tracker-bot/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the outbound slice of the Telegram API the dispatcher needs.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NotificationService broadcasts change notices to every active chat. One
// background worker drains the queue in FIFO order, blocking on the
// channel until something is enqueued. Delivery is at-most-once and
// best-effort: a failed send is logged and skipped, never retried, and a
// full queue drops the notification.
type NotificationService struct {
	api       Sender
	queue     chan string
	mu        sync.Mutex
	active    map[int64]struct{}
	startOnce sync.Once
}

func NewNotificationService(api Sender) *NotificationService {
	return &NotificationService{
		api:    api,
		queue:  make(chan string, 64),
		active: make(map[int64]struct{}),
	}
}

// Activate marks a chat as eligible for broadcasts. Called only after the
// chat's /start passed authorization.
func (ns *NotificationService) Activate(chatID int64) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.active[chatID] = struct{}{}
}

// Deactivate removes a chat, e.g. when its /start turned out unauthorized.
func (ns *NotificationService) Deactivate(chatID int64) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.active, chatID)
}

// IsActive reports whether the chat would currently receive broadcasts.
func (ns *NotificationService) IsActive(chatID int64) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	_, ok := ns.active[chatID]
	return ok
}

// ActiveChats returns a snapshot of the active set. The broadcast iterates
// the copy, so chats joining mid-broadcast may or may not be included.
func (ns *NotificationService) ActiveChats() []int64 {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	chats := make([]int64, 0, len(ns.active))
	for chatID := range ns.active {
		chats = append(chats, chatID)
	}
	return chats
}

// Publish enqueues a notification. Never blocks the caller: when the queue
// is full the notification is dropped with a log line.
func (ns *NotificationService) Publish(message string) {
	select {
	case ns.queue <- message:
		logging.Logger.Infof("Event ID: NOTIFICATION_ENQUEUED, Description: Queued notification: %s", message)
	default:
		logging.Logger.Warnf("Event ID: NOTIFICATION_DROPPED, Description: Queue full, dropping notification: %s", message)
	}
}

// Start launches the background worker. Idempotent; only the first call
// starts anything.
func (ns *NotificationService) Start() {
	ns.startOnce.Do(func() {
		go ns.worker()
		logging.Logger.Info("Event ID: NOTIFICATION_WORKER_STARTED, Description: Notification delivery worker started")
	})
}

func (ns *NotificationService) worker() {
	for message := range ns.queue {
		ns.Broadcast(message)
	}
}

// Broadcast sends one notification to a snapshot of the active chats. A
// per-recipient failure never aborts delivery to the rest.
func (ns *NotificationService) Broadcast(message string) {
	chats := ns.ActiveChats()
	logging.Logger.Infof("Event ID: NOTIFICATION_BROADCAST, Description: Sending notification to %d chats", len(chats))
	for _, chatID := range chats {
		if _, err := ns.api.Send(tgbotapi.NewMessage(chatID, message)); err != nil {
			logging.Logger.Errorf("Event ID: NOTIFICATION_SEND_FAILED, Description: Sending notification to chat %d failed: %v", chatID, err)
		}
	}
}
