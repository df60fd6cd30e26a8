package services

import (
	"sync"

	"tracker-bot/logging"
	"tracker-bot/models"
)

// SessionStore owns every session record. Sessions are created lazily on
// first sight of a chat and never evicted. Mutation of a session's flow
// happens only on the update-dispatch path; the mutex covers the map so
// the notification worker can look at sessions safely.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*models.Session)}
}

// Get returns the session for the chat, creating it if needed.
func (s *SessionStore) Get(chatID int64) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[chatID]
	if !ok {
		session = &models.Session{ChatID: chatID}
		s.sessions[chatID] = session
	}
	return session
}

// SetSection switches the chat's active menu section.
func (s *SessionStore) SetSection(chatID int64, section models.Section) {
	session := s.Get(chatID)
	session.Section = section
}

// Reset puts the session back to a known state: the given section, no
// flow. Used by /start.
func (s *SessionStore) Reset(chatID int64, section models.Section) {
	session := s.Get(chatID)
	session.Section = section
	session.Flow = nil
}

// BeginFlow installs a new flow for the chat. A session holds at most one
// flow; an unfinished one is discarded, which is the only way out of a
// flow abandoned mid-step.
func (s *SessionStore) BeginFlow(chatID int64, flow models.Flow) {
	session := s.Get(chatID)
	if session.Flow != nil {
		logging.Logger.Infof("Event ID: FLOW_OVERWRITTEN, Description: Chat %d started %s while %s was still in progress; discarding the stale flow", chatID, flow.Kind(), session.Flow.Kind())
	}
	session.Flow = flow
}

// ActiveFlow returns the chat's in-flight flow, or nil.
func (s *SessionStore) ActiveFlow(chatID int64) models.Flow {
	return s.Get(chatID).Flow
}

// ClearFlow removes the chat's flow entirely. Called on finalize (success
// or failure alike) so no field leaks into a later flow.
func (s *SessionStore) ClearFlow(chatID int64) {
	s.Get(chatID).Flow = nil
}
