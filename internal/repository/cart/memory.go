package cart

import (
	"context"
	"sync"

	"chopmate/internal/domain"
)

type memoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory returns an in-process Storage. Contents are lost on restart.
func NewMemory() Storage {
	return &memoryStorage{items: make(map[string]string)}
}

func (m *memoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	v, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *memoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}
