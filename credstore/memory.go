package credstore

import (
	"context"
	"sync"
)

// Memory is an in-process [Store]. It is the default backend and the one
// tests construct; every client built without an explicit store gets its own
// instance, so independent clients never share credential state.
type Memory struct {
	mu   sync.RWMutex
	pair Pair
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently.
func (m *Memory) Get(_ context.Context) (Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pair, nil
}

// Set describes the set operation and its observable behavior.
//
// Set does not mutate shared global state and can be used concurrently.
func (m *Memory) Set(_ context.Context, pair Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = pair
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear is idempotent and can be used concurrently.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = Pair{}
	return nil
}
