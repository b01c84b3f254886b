// Package cache memoizes pipeline results keyed by a deterministic
// serialization of the call arguments.
//
// Two policies are available: an unbounded map that keeps every entry for the
// life of the process, and a size-capped LRU. Both are safe for concurrent use.
package cache

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores values by string key.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Add(key string, value V)
	Len() int
	Purge()
	Stats() Stats
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	// Capacity is 0 for unbounded caches
	Capacity int
}

// counters is embedded by both implementations.
type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func (c *counters) record(hit bool) {
	if hit {
		c.hits.Add(1)
		return
	}
	c.misses.Add(1)
}

// Unbounded keeps every entry until Purge is called.
type Unbounded[V any] struct {
	counters
	mu      sync.RWMutex
	entries map[string]V
}

// NewUnbounded creates an unbounded cache.
func NewUnbounded[V any]() *Unbounded[V] {
	return &Unbounded[V]{entries: make(map[string]V)}
}

func (u *Unbounded[V]) Get(key string) (V, bool) {
	u.mu.RLock()
	v, ok := u.entries[key]
	u.mu.RUnlock()
	u.record(ok)
	return v, ok
}

func (u *Unbounded[V]) Add(key string, value V) {
	u.mu.Lock()
	u.entries[key] = value
	u.mu.Unlock()
}

func (u *Unbounded[V]) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.entries)
}

func (u *Unbounded[V]) Purge() {
	u.mu.Lock()
	u.entries = make(map[string]V)
	u.mu.Unlock()
}

func (u *Unbounded[V]) Stats() Stats {
	return Stats{
		Hits:   u.hits.Load(),
		Misses: u.misses.Load(),
		Size:   u.Len(),
	}
}

// LRU evicts the least recently used entry once capacity is reached.
type LRU[V any] struct {
	counters
	size  int
	inner *lru.Cache[string, V]
}

// NewLRU creates a cache holding at most size entries. size must be positive.
func NewLRU[V any](size int) (*LRU[V], error) {
	c := &LRU[V]{size: size}
	inner, err := lru.NewWithEvict[string, V](size, func(string, V) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.inner = inner
	return c, nil
}

func (l *LRU[V]) Get(key string) (V, bool) {
	v, ok := l.inner.Get(key)
	l.record(ok)
	return v, ok
}

func (l *LRU[V]) Add(key string, value V) {
	l.inner.Add(key, value)
}

func (l *LRU[V]) Len() int {
	return l.inner.Len()
}

// Purge empties the cache. Purged entries are not counted as evictions.
func (l *LRU[V]) Purge() {
	evicted := l.evictions.Load()
	l.inner.Purge()
	l.evictions.Store(evicted)
}

func (l *LRU[V]) Stats() Stats {
	return Stats{
		Hits:      l.hits.Load(),
		Misses:    l.misses.Load(),
		Evictions: l.evictions.Load(),
		Size:      l.inner.Len(),
		Capacity:  l.size,
	}
}

// New returns an unbounded cache for size <= 0 and an LRU otherwise.
func New[V any](size int) Cache[V] {
	if size <= 0 {
		return NewUnbounded[V]()
	}
	c, err := NewLRU[V](size)
	if err != nil {
		// unreachable for positive sizes
		return NewUnbounded[V]()
	}
	return c
}

var (
	_ Cache[int] = (*Unbounded[int])(nil)
	_ Cache[int] = (*LRU[int])(nil)
)
