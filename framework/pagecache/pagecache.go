// Package pagecache stores rendered pages keyed by request path.
package pagecache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store keeps rendered HTML between requests. A zero ttl keeps entries until
// they are purged.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, bool, error)
	Set(ctx context.Context, path string, body []byte) error
	Purge(ctx context.Context) error
	Close() error
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, path string) ([]byte, bool, error) {
	key := NormalizeKey(path)

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	return entry.body, true, nil
}

func (m *Memory) Set(_ context.Context, path string, body []byte) error {
	entry := memoryEntry{body: append([]byte(nil), body...)}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[NormalizeKey(path)] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Purge(context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// NormalizeKey maps "/post/a/" and "post/a" to the same cache key.
func NormalizeKey(path string) string {
	path = strings.TrimSpace(path)
	path = strings.TrimRight(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
