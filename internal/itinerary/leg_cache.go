package itinerary

import (
	"sync"

	"wayfare/internal/fallback"
)

// LegCache memoizes resolver outcomes by leg index for one search session.
// It only saves requests; dropping it never changes what the user sees.
type LegCache struct {
	mu      sync.RWMutex
	entries map[int]fallback.FlightOutcome
}

func NewLegCache() *LegCache {
	return &LegCache{entries: make(map[int]fallback.FlightOutcome)}
}

func (c *LegCache) Get(leg int) (fallback.FlightOutcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.entries[leg]
	return o, ok
}

func (c *LegCache) Put(leg int, o fallback.FlightOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[leg] = o
}

func (c *LegCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]fallback.FlightOutcome)
}

func (c *LegCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
