package snapshot

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store for testing. Safe for concurrent use.
type MockStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// Optional overrides; when nil the in-memory behavior applies.
	LoadFunc   func(ctx context.Context, key string) ([]byte, error)
	SaveFunc   func(ctx context.Context, key string, data []byte) error
	DeleteFunc func(ctx context.Context, key string) error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Load(ctx context.Context, key string) ([]byte, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *MockStore) Save(ctx context.Context, key string, data []byte) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, key, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Has reports whether a key currently holds a snapshot.
func (m *MockStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
