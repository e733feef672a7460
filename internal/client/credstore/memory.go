package credstore

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is a map-backed Store for tests and throwaway sessions. The
// Err* fields inject failures into the matching operations.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	ErrGet    error
	ErrSet    error
	ErrDelete error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrGet != nil {
		return "", false, m.ErrGet
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrSet != nil {
		return m.ErrSet
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	return m.DeleteAll(ctx, key)
}

func (m *MemoryStore) SetAll(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrSet != nil {
		return m.ErrSet
	}
	maps.Copy(m.values, values)
	return nil
}

func (m *MemoryStore) DeleteAll(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrDelete != nil {
		return m.ErrDelete
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Snapshot returns a copy of the stored slots.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}
