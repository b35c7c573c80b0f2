// Package store provides Store implementations.
package store

import (
	"context"
	"encoding/json"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory snapshot store (for testing/dev)
// =============================================================================

// Memory keeps each snapshot as marshaled JSON so that Load/Save round-trips
// behave exactly like a durable store would.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string, v any) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshots[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = data
	return nil
}

// Reset drops every snapshot.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = make(map[string][]byte)
	return nil
}
