package cache

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// MEMORY CACHE - In-process implementation with tag index
// =============================================================================

type entry struct {
	value     []byte
	expiresAt time.Time // zero = no expiry
	tags      []string
}

// Memory is a mutex-guarded in-process cache. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	tags    map[string]map[string]struct{} // tag -> set of keys

	// now is swappable for expiry tests.
	now func() time.Time
}

var _ Service = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		tags:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expiresAt.IsZero() || !m.now().After(e.expiresAt) {
		return e.value, true
	}

	// Expired entries are dropped lazily here and in Cleanup. Re-check
	// under the write lock: a concurrent SetWithTags may have replaced
	// the entry between the two locks, and a fresh entry must survive.
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok = m.entries[key]
	if !ok {
		return nil, false
	}
	if e.expiresAt.IsZero() || !m.now().After(e.expiresAt) {
		return e.value, true
	}
	m.removeLocked(key)
	return nil, false
}

func (m *Memory) SetWithTags(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Replacing an entry detaches its previous tags first.
	if _, ok := m.entries[key]; ok {
		m.removeLocked(key)
	}

	e := entry{value: value, tags: tags}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e

	for _, tag := range tags {
		keys, ok := m.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (m *Memory) InvalidateTag(_ context.Context, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.tags[tag] {
		m.removeLocked(key)
	}
	return nil
}

func (m *Memory) Cleanup(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			m.removeLocked(key)
		}
	}
	return nil
}

// Len reports the number of live entries (expired-but-unswept included).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) removeLocked(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range e.tags {
		if keys, ok := m.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(m.tags, tag)
			}
		}
	}
}
