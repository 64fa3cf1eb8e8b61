package idcache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	items map[string]Entry
	clock Clock
}

// NewMemory creates an empty Memory store. clock may be nil.
func NewMemory(clock Clock) *Memory {
	return &Memory{
		items: make(map[string]Entry),
		clock: clock,
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if e.Expired(m.clock.now()) {
		m.mu.Lock()
		// Only drop the entry we looked at; a concurrent Put may have replaced it.
		if cur, ok := m.items[key]; ok && cur == e {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return "", false, nil
	}
	return e.ID, true, nil
}

func (m *Memory) Put(ctx context.Context, key, id string, ttl time.Duration) error {
	e := Entry{Key: key, ID: id, ExpiresAt: m.clock.now().Add(normalizeTTL(ttl))}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

// Forget removes key. The Adapter never calls it.
func (m *Memory) Forget(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

var _ Store = (*Memory)(nil)
