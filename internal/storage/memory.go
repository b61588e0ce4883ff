package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store used by tests and throwaway sessions.
// Documents are kept as marshaled JSON so Load always hands out copies,
// never aliases into previously saved slices.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]byte
	initialized bool
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, collection string, v any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

func (m *Memory) Save(_ context.Context, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = data
	return nil
}

func (m *Memory) Initialized(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized, nil
}

func (m *Memory) MarkInitialized(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	return nil
}
