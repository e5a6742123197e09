package utils

import (
	"sync"
	"time"
)

type Cache[T any] struct {
	value      T
	cachedAt   time.Time
	expiration time.Time
	mutex      sync.RWMutex
}

// NewCache initializes a new cache with an empty value.
func NewCache[T any]() *Cache[T] {
	var zero T
	return &Cache[T]{
		value: zero,
	}
}

// Set sets a new value in the cache with an expiration time.
func (c *Cache[T]) Set(value T, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.value = value
	c.cachedAt = time.Now()
	c.expiration = time.Now().Add(duration)
}

// Get retrieves the cached value, checking if it's valid based on refreshAfter.
func (c *Cache[T]) Get(refreshAfter time.Time) (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if time.Now().After(c.expiration) || c.cachedAt.After(refreshAfter) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Clear removes the cached value.
func (c *Cache[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero T
	c.value = zero
	c.expiration = time.Time{}
}

// CacheMap holds one Cache per key, created on first use.
type CacheMap[K comparable, T any] struct {
	ttl     time.Duration
	entries sync.Map
}

func NewCacheMap[K comparable, T any](ttl time.Duration) *CacheMap[K, T] {
	return &CacheMap[K, T]{ttl: ttl}
}

func (m *CacheMap[K, T]) entry(key K) *Cache[T] {
	if c, ok := m.entries.Load(key); ok {
		return c.(*Cache[T])
	}
	c, _ := m.entries.LoadOrStore(key, NewCache[T]())
	return c.(*Cache[T])
}

func (m *CacheMap[K, T]) Get(key K) (T, bool) {
	return m.entry(key).Get(time.Now())
}

func (m *CacheMap[K, T]) Set(key K, value T) {
	m.entry(key).Set(value, m.ttl)
}

func (m *CacheMap[K, T]) Clear(key K) {
	m.entry(key).Clear()
}
