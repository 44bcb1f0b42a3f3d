package repositories

import (
	"context"
	"sync"
)

// MemoryStorageRepository - хранилище в памяти процесса (тесты, STORAGE_DRIVER=memory).
type MemoryStorageRepository struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorageRepository() *MemoryStorageRepository {
	return &MemoryStorageRepository{items: make(map[string]string)}
}

func (m *MemoryStorageRepository) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.items[key]
	return val, ok, nil
}

func (m *MemoryStorageRepository) SetItem(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorageRepository) RemoveItem(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}
