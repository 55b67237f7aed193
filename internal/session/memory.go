package session

import (
	"context"
	"sync"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// MemoryStore keeps serialized users in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore returns an empty in-process slot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (domain.User, bool, error) {
	m.mu.RLock()
	payload, ok := m.slots[key]
	m.mu.RUnlock()
	if !ok {
		return domain.User{}, false, nil
	}
	user, err := decodeUser(payload)
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, user domain.User) error {
	payload, err := encodeUser(user)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.slots[key] = payload
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.slots, key)
	m.mu.Unlock()
	return nil
}
