package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cache"
)

// DefaultMemoryCapacity bounds the number of sessions a MemoryStore keeps.
const DefaultMemoryCapacity = 100_000

// MemoryStore implements Store in process memory.
// Least recently used sessions are evicted once capacity is reached.
type MemoryStore struct {
	prefix KeyPrefix
	items  *cache.LRUCache[string, Values]
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	capacity        int
	cleanupInterval time.Duration
	prefix          KeyPrefix
	clock           func() time.Time
}

// WithMemoryCapacity sets the maximum number of stored sessions.
func WithMemoryCapacity(n int) MemoryOption {
	return func(c *memoryConfig) { c.capacity = n }
}

// WithCleanupInterval purges expired sessions periodically. Zero disables it.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.cleanupInterval = d }
}

// WithMemoryPrefix sets the key prefix.
func WithMemoryPrefix(prefix string) MemoryOption {
	return func(c *memoryConfig) { c.prefix = KeyPrefix(prefix) }
}

// WithMemoryClock replaces the time source used for expiry.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) { c.clock = now }
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := memoryConfig{capacity: DefaultMemoryCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity <= 0 {
		cfg.capacity = DefaultMemoryCapacity
	}

	store := &MemoryStore{
		prefix: cfg.prefix,
		items:  cache.NewLRUCache[string, Values](cfg.capacity),
		done:   make(chan struct{}),
	}
	if cfg.clock != nil {
		store.items.SetClock(cfg.clock)
	}

	if cfg.cleanupInterval > 0 {
		store.ticker = time.NewTicker(cfg.cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Get returns a copy of the stored values
func (m *MemoryStore) Get(ctx context.Context, id string) (Values, error) {
	data, ok := m.items.Get(m.prefix.Key(id))
	if !ok {
		return nil, ErrSessionNotFound
	}
	return maps.Clone(data), nil
}

// Set stores a copy of data without expiry
func (m *MemoryStore) Set(ctx context.Context, id string, data Values) error {
	if data == nil {
		data = Values{}
	}
	m.items.Put(m.prefix.Key(id), maps.Clone(data))
	return nil
}

// Remove deletes a session
func (m *MemoryStore) Remove(ctx context.Context, id string) error {
	m.items.Remove(m.prefix.Key(id))
	return nil
}

// Expire sets the session TTL. Expiring a missing session is a no-op
func (m *MemoryStore) Expire(ctx context.Context, id string, ttl time.Duration) error {
	m.items.Expire(m.prefix.Key(id), ttl)
	return nil
}

// ClearAll drops every session under the prefix, or all of them without one
func (m *MemoryStore) ClearAll(ctx context.Context) error {
	if m.prefix == "" {
		m.items.Clear()
		return nil
	}
	m.items.RemoveFunc(func(key string) bool {
		_, ok := m.prefix.ID(key)
		return ok
	})
	return nil
}

// DeleteExpired removes all expired sessions and returns how many were removed
func (m *MemoryStore) DeleteExpired(ctx context.Context) int {
	return m.items.PurgeExpired()
}

// Len returns the number of held sessions, including expired ones not yet purged
func (m *MemoryStore) Len() int {
	return m.items.Len()
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
			close(m.done)
		}
	})
	return nil
}

// cleanupLoop runs periodic cleanup of expired sessions
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
