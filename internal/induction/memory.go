package induction

import (
	"context"
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.RWMutex
	cfg   Config
	saved bool
}

func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Get(_ context.Context) (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.saved {
		return DefaultConfig(), nil
	}
	return m.cfg, nil
}

func (m *MemStore) Put(_ context.Context, c Config) (Config, error) {
	if err := validate(&c); err != nil {
		return Config{}, err
	}
	c.UpdatedAt = time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = c
	m.saved = true
	return c, nil
}
