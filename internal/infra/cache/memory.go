// Package cache provides verification-result caches. Verification is a pure
// function, so caching verdicts is safe for any TTL; the TTL only bounds
// memory, not correctness.
package cache

import (
	"context"
	"sync"
	"time"

	"aperture/internal/domain"
	"aperture/internal/usecase"
)

const defaultMaxEntries = 4096

// Memory is a bounded in-process verdict cache. When an insert would exceed
// the entry cap it first sweeps expired entries; if the cache is still full
// it evicts arbitrary entries to make room. Dropped verdicts only cost a
// re-verification, so eviction order does not matter.
type Memory struct {
	mu         sync.Mutex
	now        func() time.Time
	entries    map[string]memoryEntry
	maxEntries int
}

type memoryEntry struct {
	value     domain.VerificationResult
	expiresAt time.Time
	hasExpiry bool
}

type MemoryConfig struct {
	Now        func() time.Time
	MaxEntries int
}

func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	return &Memory{
		now:        cfg.Now,
		entries:    make(map[string]memoryEntry),
		maxEntries: cfg.MaxEntries,
	}
}

func (c *Memory) Get(_ context.Context, key string) (*domain.VerificationResult, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.hasExpiry && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	value := entry.value
	return &value, true, nil
}

func (c *Memory) Put(_ context.Context, key string, value domain.VerificationResult, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.sweep(c.now())
		for evictKey := range c.entries {
			if len(c.entries) < c.maxEntries {
				break
			}
			delete(c.entries, evictKey)
		}
	}

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.hasExpiry = true
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = entry
	return nil
}

func (c *Memory) sweep(now time.Time) {
	for key, entry := range c.entries {
		if entry.hasExpiry && now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ usecase.VerificationCache = (*Memory)(nil)
