package storage

import (
	"context"
	"sync"
)

// Memory implements KV in process memory. Used for tests and for running the
// server without a Redis instance; data does not survive a restart.
type Memory struct {
	mu            sync.RWMutex
	data          map[string][]byte
	maxValueBytes int

	// SetErr, when non-nil, is returned by every Set. Lets tests simulate a
	// full or unavailable backend.
	SetErr error
}

// NewMemory returns an empty in-memory store. maxValueBytes <= 0 disables
// the size limit.
func NewMemory(maxValueBytes int) *Memory {
	return &Memory{
		data:          make(map[string][]byte),
		maxValueBytes: maxValueBytes,
	}
}

// Get fetches a key. Returns ErrNotFound when absent.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a value.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.maxValueBytes > 0 && len(value) > m.maxValueBytes {
		return ErrQuotaExceeded
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
