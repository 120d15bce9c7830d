package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// TTLCache is a typed view over go-cache. Entries expire ttl after their
// last Set and are swept every cleanupInterval.
type TTLCache[T any] struct {
	c   *gocache.Cache
	ttl time.Duration
}

// NewTTLCache creates a cache. A non-positive cleanupInterval disables the
// background sweep; expired entries are then only dropped on access.
func NewTTLCache[T any](ttl, cleanupInterval time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		c:   gocache.New(ttl, cleanupInterval),
		ttl: ttl,
	}
}

func (t *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	v, ok := t.c.Get(key)
	if !ok {
		return zero, false
	}
	data, ok := v.(T)
	if !ok {
		return zero, false
	}
	return data, true
}

func (t *TTLCache[T]) Set(key string, data T) {
	t.c.Set(key, data, t.ttl)
}

// GetOrCreate returns the cached value for key, storing create() first when
// absent. Concurrent callers for the same key all observe one value.
func (t *TTLCache[T]) GetOrCreate(key string, create func() T) T {
	if v, ok := t.Get(key); ok {
		return v
	}
	v := create()
	if err := t.c.Add(key, v, t.ttl); err != nil {
		// Lost the race: another caller stored first.
		if existing, ok := t.Get(key); ok {
			return existing
		}
		t.Set(key, v)
	}
	return v
}

// Touch refreshes the expiry of an existing entry.
func (t *TTLCache[T]) Touch(key string) {
	if v, ok := t.Get(key); ok {
		t.Set(key, v)
	}
}

func (t *TTLCache[T]) Delete(key string) {
	t.c.Delete(key)
}

// Size counts stored items, possibly including expired ones not yet swept.
func (t *TTLCache[T]) Size() int {
	return t.c.ItemCount()
}

// CleanExpired removes expired entries now and reports how many remain.
func (t *TTLCache[T]) CleanExpired() int {
	t.c.DeleteExpired()
	return t.c.ItemCount()
}

// Flush removes every entry.
func (t *TTLCache[T]) Flush() {
	t.c.Flush()
}

var _ Cache[int] = (*TTLCache[int])(nil)
