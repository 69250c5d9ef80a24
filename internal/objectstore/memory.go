package objectstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process object store for development and tests. It keeps
// the no-overwrite contract of the real store.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Upload stores data under name, failing on an existing name.
func (m *Memory) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[name]; exists {
		return fmt.Errorf("object %q already exists", name)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[name] = buf
	return nil
}

// PublicURL returns a local pseudo-URL for the stored object.
func (m *Memory) PublicURL(name string) string {
	return "memory://" + name
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
