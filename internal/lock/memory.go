package lock

import (
	"context"
	"sync"
	"time"

	"booking-reconciler/internal/pkg/clock"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore implements Store in process memory. It gives the same
// lease semantics as RedisStore to goroutines of one process.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]memoryEntry
}

func NewMemoryStore(c clock.Clock) *MemoryStore {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &MemoryStore{clock: c, entries: make(map[string]memoryEntry)}
}

// live returns the entry for key if it has not expired. Callers hold mu.
func (m *MemoryStore) live(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (m *MemoryStore) Acquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live(key); ok {
		return false, nil
	}
	m.entries[key] = memoryEntry{token: token, expiresAt: m.clock.Now().Add(ttl)}
	return true, nil
}

func (m *MemoryStore) Refresh(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok || e.token != token {
		return false, nil
	}
	e.expiresAt = m.clock.Now().Add(ttl)
	m.entries[key] = e
	return true, nil
}

func (m *MemoryStore) Release(_ context.Context, key, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok || e.token != token {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
