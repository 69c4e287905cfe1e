package memory

import (
	"context"
	"sync"
	"time"

	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/repository"
)

var _ repository.ConversationStateStore = (*StateStore)(nil)

// StateStore is the in-memory ConversationStateStore. Each call is atomic
// per chat; sequences of calls are not.
type StateStore struct {
	mu     sync.RWMutex
	states map[int64]model.ConversationState
	ttl    time.Duration
	now    func() time.Time
}

// NewStateStore returns a store where pending prompts older than ttl read
// as Idle. A ttl of zero keeps them forever.
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		states: make(map[int64]model.ConversationState),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the current state for chatID, or Idle if none is set.
func (s *StateStore) Get(_ context.Context, chatID int64) model.ConversationState {
	s.mu.RLock()
	st, ok := s.states[chatID]
	s.mu.RUnlock()
	if !ok {
		return model.Idle()
	}
	if s.expired(st) {
		s.mu.Lock()
		// re-check: a concurrent Set may have replaced it
		if cur, ok := s.states[chatID]; ok && cur.UpdatedAt.Equal(st.UpdatedAt) {
			delete(s.states, chatID)
		}
		s.mu.Unlock()
		return model.Idle()
	}
	return st
}

// Set replaces the state for chatID. Setting Idle is the same as Clear.
func (s *StateStore) Set(_ context.Context, chatID int64, st model.ConversationState) {
	if st.IsIdle() {
		s.clear(chatID)
		return
	}
	st.UpdatedAt = s.now()
	s.mu.Lock()
	s.states[chatID] = st
	s.mu.Unlock()
}

func (s *StateStore) Clear(_ context.Context, chatID int64) {
	s.clear(chatID)
}

func (s *StateStore) clear(chatID int64) {
	s.mu.Lock()
	delete(s.states, chatID)
	s.mu.Unlock()
}

// Len reports how many chats have a pending prompt, expired ones included.
func (s *StateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func (s *StateStore) expired(st model.ConversationState) bool {
	return s.ttl > 0 && s.now().Sub(st.UpdatedAt) > s.ttl
}
