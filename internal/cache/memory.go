package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value      string
	expiration time.Time
}

// MemoryCache is an in-process TTL cache bounded to maxEntries. When full,
// expired entries are dropped first, then the entry closest to expiry.
type MemoryCache struct {
	mu         sync.Mutex
	data       map[string]memoryEntry
	maxEntries int
	hits       int64
	misses     int64
	now        func() time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries values
// (0 means unbounded).
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		m.misses++
		return "", false, nil
	}
	if !e.expiration.IsZero() && m.now().After(e.expiration) {
		delete(m.data, key)
		m.misses++
		return "", false, nil
	}
	m.hits++
	return e.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	if _, exists := m.data[key]; !exists && m.maxEntries > 0 && len(m.data) >= m.maxEntries {
		m.evictLocked()
	}
	m.data[key] = memoryEntry{value: value, expiration: exp}
	return nil
}

func (m *MemoryCache) evictLocked() {
	now := m.now()
	for k, e := range m.data {
		if !e.expiration.IsZero() && now.After(e.expiration) {
			delete(m.data, k)
		}
	}
	if len(m.data) < m.maxEntries {
		return
	}

	var victim string
	var victimExp time.Time
	first := true
	for k, e := range m.data {
		// Entries without a TTL are the last to go.
		if first || (!e.expiration.IsZero() && (victimExp.IsZero() || e.expiration.Before(victimExp))) {
			victim, victimExp, first = k, e.expiration, false
		}
	}
	delete(m.data, victim)
}

// Stats returns hit/miss counters and the current size.
func (m *MemoryCache) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Backend: "memory", Hits: m.hits, Misses: m.misses, Size: len(m.data)}
}
