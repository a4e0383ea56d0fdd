// Package cache provides the process-wide result cache for inmate lookups.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalHerencia/court-jester/internal/lookup"
	"github.com/DigitalHerencia/court-jester/internal/metrics"
)

type entry struct {
	record    lookup.InmateRecord
	createdAt time.Time
}

// Cache is a bounded TTL memoization map keyed by normalized query. Entries
// past the freshness window are treated as absent; a background sweep (or an
// explicit EvictExpired call) reclaims them.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	clock      lookup.Clock
	logger     *zap.Logger
}

// New builds a cache with the given freshness window and size bound. A
// maxEntries of zero means unbounded.
func New(ttl time.Duration, maxEntries int, clock lookup.Clock, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clock,
		logger:     logger,
	}
}

// Get returns the cached record for key if it is still fresh.
func (c *Cache) Get(key string) (lookup.InmateRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ent, ok := c.entries[key]
	if !ok || c.stale(ent) {
		return lookup.InmateRecord{}, false
	}
	return ent.record, true
}

// Put inserts or overwrites the entry for key, stamping the current time.
// When the size bound is hit, expired entries are reclaimed first and the
// oldest entry is dropped if that was not enough.
func (c *Cache) Put(key string, rec lookup.InmateRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.reclaimLocked()
		}
	}
	c.entries[key] = entry{record: rec, createdAt: c.clock.Now()}
}

// EvictExpired removes every stale entry and returns how many were dropped.
func (c *Cache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for key, ent := range c.entries {
		if c.stale(ent) {
			delete(c.entries, key)
			metrics.ObserveCacheEvent("evict")
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep evicts expired entries on the given interval until ctx is done.
func (c *Cache) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := c.EvictExpired(); dropped > 0 {
				c.logger.Debug("cache sweep", zap.Int("dropped", dropped))
			}
		}
	}
}

func (c *Cache) stale(ent entry) bool {
	return c.clock.Now().Sub(ent.createdAt) >= c.ttl
}

// reclaimLocked frees at least one slot; caller holds the write lock.
func (c *Cache) reclaimLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, ent := range c.entries {
		if c.stale(ent) {
			delete(c.entries, key)
		} else if oldestKey == "" || ent.createdAt.Before(oldestAt) {
			oldestKey, oldestAt = key, ent.createdAt
		}
	}
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
