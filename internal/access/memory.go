package access

import (
	"context"
	"sync"

	"pickbot/internal/interfaces"
)

// MemoryStore keeps authorized users for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]struct{}
}

var _ interfaces.AccessStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]struct{})}
}

func (m *MemoryStore) Add(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = struct{}{}
	return nil
}

func (m *MemoryStore) Contains(ctx context.Context, userID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[userID]
	return ok, nil
}

// Len returns the number of authorized users.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
