package store

import (
	"context"
	"sync"

	"eventchat-backend/internal/models"
)

// MemoryStore is an in-process HistoryStore used for local development when
// no document store is configured, and as a fake in tests. Conversations do
// not survive a restart.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string][]models.ChatMessage
}

var _ HistoryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string][]models.ChatMessage),
	}
}

func (s *MemoryStore) GetHistory(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.conversations[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) SaveHistory(ctx context.Context, userID string, msgs []models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]models.ChatMessage, len(msgs))
	copy(stored, msgs)
	s.conversations[userID] = stored
	return nil
}
