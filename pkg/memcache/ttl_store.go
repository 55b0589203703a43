// Package mem holds small in-process stores owned by a single service instance.
package mem

import (
	"sync"
	"time"
)

type Store[V any] interface {
	Set(key string, value V, ttl time.Duration)

	// Get returns the value for key if it has not expired.
	Get(key string) (V, bool)

	Len() int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLStore expires entries lazily on read and prunes once it grows past maxEntries.
type TTLStore[V any] struct {
	mu         sync.RWMutex
	data       map[string]entry[V]
	maxEntries int
	now        func() time.Time
}

func NewTTLStore[V any](maxEntries int) *TTLStore[V] {
	return &TTLStore[V]{
		data:       make(map[string]entry[V]),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *TTLStore[V]) Set(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.data[key] = entry[V]{
		value:     value,
		expiresAt: now.Add(ttl),
	}

	if s.maxEntries > 0 && len(s.data) > s.maxEntries {
		for k, e := range s.data {
			if now.After(e.expiresAt) {
				delete(s.data, k)
			}
		}
	}
}

func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (s *TTLStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
