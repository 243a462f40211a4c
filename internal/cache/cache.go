// Package cache provides the in-memory response cache fronting expensive
// aggregate queries, with explicit warming state so background refreshes can
// be deduplicated per key. It is advisory: losing it costs freshness, never
// data.
package cache

import (
	"path"
	"sync"
	"time"

	"leadpulse/internal/obs"
)

// Entry is a snapshot of one cached value and its freshness window. Entries
// are replaced wholesale on refresh, never mutated while readable.
type Entry struct {
	Key       string
	Value     any
	CreatedAt time.Time
	ExpiresAt time.Time
	Warming   bool
}

// PercentUsed reports how much of the entry's freshness window has elapsed.
func (e Entry) PercentUsed(now time.Time) float64 {
	window := e.ExpiresAt.Sub(e.CreatedAt)
	if window <= 0 {
		return 1
	}
	used := float64(now.Sub(e.CreatedAt)) / float64(window)
	if used < 0 {
		return 0
	}
	return used
}

// State describes a key's freshness for the status surface.
type State string

const (
	StateEmpty   State = "empty"
	StateFresh   State = "fresh"
	StateWarming State = "warming"
	StateExpired State = "expired"
)

// Status is the read-only answer for one key.
type Status struct {
	State            State
	ExpiresAt        time.Time
	RemainingSeconds int
	PercentUsed      float64
}

// Stats summarizes the whole cache for operational visibility.
type Stats struct {
	Entries int
	Fresh   int
	Expired int
	Warming int
}

// Cache is a mutex-guarded TTL map. Expiry is lazy: Get treats an expired
// entry as absent, and the entry lingers until replaced or cleared so the
// status surface can still distinguish expired from empty.
type Cache struct {
	mu            sync.Mutex
	entries       map[string]Entry
	warming       map[string]bool
	warmThreshold float64

	now func() time.Time
}

// New constructs a cache. warmThreshold is the percent-used fraction past
// which NeedsWarming triggers a pre-emptive refresh.
func New(warmThreshold float64) *Cache {
	return &Cache{
		entries:       make(map[string]Entry),
		warming:       make(map[string]bool),
		warmThreshold: warmThreshold,
		now:           time.Now,
	}
}

// Get returns the cached value while the entry is inside its TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.ExpiresAt) {
		obs.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	obs.CacheRequests.WithLabelValues("hit").Inc()
	return e.Value, true
}

// Set installs a fresh entry and clears any warming mark for the key.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = Entry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	delete(c.warming, key)
}

// NeedsWarming reports whether a refresh should be triggered for the key:
// the entry is absent, expired, or past the warm threshold, and no refresh
// is already underway.
func (c *Cache) NeedsWarming(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.needsWarmingLocked(key)
}

func (c *Cache) needsWarmingLocked(key string) bool {
	if c.warming[key] {
		return false
	}
	e, ok := c.entries[key]
	if !ok {
		return true
	}
	now := c.now()
	if !now.Before(e.ExpiresAt) {
		return true
	}
	return e.PercentUsed(now) > c.warmThreshold
}

// SetWarming marks or unmarks a key as being refreshed. Idempotent.
func (c *Cache) SetWarming(key string, warming bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if warming {
		c.warming[key] = true
	} else {
		delete(c.warming, key)
	}
}

// StartWarming atomically checks NeedsWarming (bypassed when force is set)
// and claims the warming mark. It returns true for exactly one caller at a
// time per key, which is what keeps concurrent warms deduplicated.
func (c *Cache) StartWarming(key string, force bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.warming[key] {
		return false
	}
	if !force && !c.needsWarmingLocked(key) {
		return false
	}
	c.warming[key] = true
	return true
}

// Entry returns a snapshot of the key's entry, expired or not.
func (c *Cache) Entry(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	e.Warming = c.warming[key]
	return e, true
}

// Status classifies the key for the read-only status surface.
func (c *Cache) Status(key string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	warming := c.warming[key]
	if !ok {
		if warming {
			return Status{State: StateWarming}
		}
		return Status{State: StateEmpty}
	}

	now := c.now()
	if !now.Before(e.ExpiresAt) {
		if warming {
			return Status{State: StateWarming, ExpiresAt: e.ExpiresAt, PercentUsed: 1}
		}
		return Status{State: StateExpired, ExpiresAt: e.ExpiresAt, PercentUsed: 1}
	}

	st := Status{
		State:            StateFresh,
		ExpiresAt:        e.ExpiresAt,
		RemainingSeconds: int(e.ExpiresAt.Sub(now).Seconds()),
		PercentUsed:      e.PercentUsed(now),
	}
	if warming {
		st.State = StateWarming
	}
	return st
}

// Stats counts entries by freshness.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Entries: len(c.entries), Warming: len(c.warming)}
	for _, e := range c.entries {
		if now.Before(e.ExpiresAt) {
			stats.Fresh++
		} else {
			stats.Expired++
		}
	}
	return stats
}

// Keys returns the keys matching a glob pattern, or every key when the
// pattern is empty.
func (c *Cache) Keys(pattern string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		if pattern != "" {
			if ok, err := path.Match(pattern, key); err != nil || !ok {
				continue
			}
		}
		keys = append(keys, key)
	}
	return keys
}

// Clear removes the given keys, or everything when called with none.
func (c *Cache) Clear(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.entries = make(map[string]Entry)
		c.warming = make(map[string]bool)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
		delete(c.warming, key)
	}
}
