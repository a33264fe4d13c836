package session

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	identity  Identity
	expiresAt time.Time
}

// MemoryCache keeps identities in process. A zero ttl never expires entries.
type MemoryCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCache) Load(_ context.Context, key string) (*Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[key]
	if !exists {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		return nil, nil
	}
	id := e.identity
	return &id, nil
}

func (m *MemoryCache) Save(_ context.Context, key string, id Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := cacheEntry{identity: id}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryCache) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// CleanupExpired drops expired entries and returns how many were removed.
func (m *MemoryCache) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// StartCleanup runs CleanupExpired on a ticker until ctx is done.
func (m *MemoryCache) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CleanupExpired()
			}
		}
	}()
}
