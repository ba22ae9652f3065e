package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Mock is an in-memory Storage for testing.
type Mock struct {
	mu    sync.Mutex
	blobs map[string][]byte

	PutFunc func(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
}

// NewMock creates an empty in-memory store.
func NewMock() *Mock {
	return &Mock{blobs: make(map[string][]byte)}
}

func (m *Mock) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, content, contentType)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = buf.Bytes()
	return m.URL(key), nil
}

func (m *Mock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *Mock) URL(key string) string {
	return "https://cdn.test/" + key
}

// Blob returns a stored blob and whether it exists.
func (m *Mock) Blob(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	return b, ok
}
