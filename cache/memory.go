package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hooplab/courtside/models"
)

type memoryEntry struct {
	leaders   []models.PlayerLeader
	expiresAt time.Time
}

type memoryLeadersCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryLeadersCache is an in-process LeadersCache for tests and
// single-node deployments without Redis.
func NewMemoryLeadersCache(ttl time.Duration) LeadersCache {
	if ttl <= 0 {
		ttl = DefaultLeadersTTL
	}
	return &memoryLeadersCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *memoryLeadersCache) Get(_ context.Context, key string) ([]models.PlayerLeader, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}

	out := make([]models.PlayerLeader, len(entry.leaders))
	copy(out, entry.leaders)
	return out, nil
}

func (c *memoryLeadersCache) Set(_ context.Context, key string, leaders []models.PlayerLeader) error {
	stored := make([]models.PlayerLeader, len(leaders))
	copy(stored, leaders)

	c.mu.Lock()
	c.entries[key] = memoryEntry{leaders: stored, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}
