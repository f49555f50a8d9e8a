package repository

import (
	"context"
	"sync"
	"time"

	"credit-agent/internal/domain"
)

// MemoryStore keeps sessions in process memory. It backs the local server and
// terminal chat, where no DynamoDB table is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.SessionRecord),
		now:      time.Now,
	}
}

func (m *MemoryStore) GetSession(_ context.Context, sessionID string) (domain.SessionRecord, bool, error) {
	m.mu.RLock()
	rec, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return domain.SessionRecord{}, false, nil
	}
	if !rec.Expired(m.now()) {
		return rec, true, nil
	}

	// A save may have landed since the read lock was released.
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[sessionID]
	if ok && !cur.Expired(m.now()) {
		return cur, true, nil
	}
	delete(m.sessions, sessionID)
	return domain.SessionRecord{}, false, nil
}

func (m *MemoryStore) SaveSession(_ context.Context, rec domain.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[rec.SessionID] = rec
	return nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
