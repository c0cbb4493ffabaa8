// Package storage defines the blob storage provider used for raw
// crawled pages and extraction audit snapshots. The abstraction keeps
// the pipeline independent of a specific backend (local filesystem,
// Google Cloud Storage, or nothing at all for dry runs).
package storage

import (
	"context"
	"sync"
)

// Provider is the common interface for a blob storage provider.
type Provider interface {
	// Save writes data under the given object name, overwriting any
	// previous object with the same name.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider discards everything. Useful for dry runs where pages are
// fetched but not kept.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}

// MemoryProvider keeps objects in a map, for tests.
type MemoryProvider struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryProvider returns an empty in-memory store.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: make(map[string][]byte)}
}

// Save records the object in memory.
func (m *MemoryProvider) Save(_ context.Context, objectName string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = append([]byte(nil), data...)
	return nil
}

// Object returns a stored object and whether it exists.
func (m *MemoryProvider) Object(objectName string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	return data, ok
}

// ObjectNames lists stored object names in no particular order.
func (m *MemoryProvider) ObjectNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	return names
}
