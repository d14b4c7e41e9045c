package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo is a bounded, concurrency-safe memoization table backed by an LRU.
// Values are computed at most once per resident key; an evicted key is
// recomputed on its next use.
type Memo[K comparable, V any] struct {
	cache *lru.Cache[K, V]
	mu    sync.RWMutex
}

// NewMemo creates a memo holding at most size entries. onEvict, when not nil,
// is called for every entry dropped by the LRU policy or by Purge.
func NewMemo[K comparable, V any](size int, onEvict func(K, V)) (*Memo[K, V], error) {
	var (
		c   *lru.Cache[K, V]
		err error
	)
	if onEvict != nil {
		c, err = lru.NewWithEvict(size, onEvict)
	} else {
		c, err = lru.New[K, V](size)
	}
	if err != nil {
		return nil, err
	}
	return &Memo[K, V]{cache: c}, nil
}

func (m *Memo[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache.Get(key)
}

func (m *Memo[K, V]) Add(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Add(key, value)
}

// GetOrCompute returns the cached value for key, computing and caching it
// with fn on a miss. Errors from fn are returned and nothing is cached.
func (m *Memo[K, V]) GetOrCompute(key K, fn func(K) (V, error)) (V, error) {
	// Fast path: try to get from cache with read lock
	m.mu.RLock()
	if v, ok := m.cache.Get(key); ok {
		m.mu.RUnlock()
		return v, nil
	}
	m.mu.RUnlock()

	// Slow path: compute and cache with write lock
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}

	v, err := fn(key)
	if err != nil {
		var zero V
		return zero, err
	}
	m.cache.Add(key, v)
	return v, nil
}

func (m *Memo[K, V]) Len() int {
	return m.cache.Len()
}

// Purge drops every entry, triggering the eviction callback for each.
func (m *Memo[K, V]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Purge()
}
