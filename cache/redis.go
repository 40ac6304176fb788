package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hooplab/courtside/models"
	"github.com/redis/go-redis/v9"
)

type redisLeadersCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLeadersCache wraps a Redis client as a LeadersCache. A zero ttl
// falls back to DefaultLeadersTTL.
func NewRedisLeadersCache(client *redis.Client, ttl time.Duration) LeadersCache {
	if ttl <= 0 {
		ttl = DefaultLeadersTTL
	}
	return &redisLeadersCache{client: client, ttl: ttl}
}

func (c *redisLeadersCache) Get(ctx context.Context, key string) ([]models.PlayerLeader, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var leaders []models.PlayerLeader
	if err := json.Unmarshal(data, &leaders); err != nil {
		return nil, fmt.Errorf("unmarshaling cached leaders: %w", err)
	}
	return leaders, nil
}

func (c *redisLeadersCache) Set(ctx context.Context, key string, leaders []models.PlayerLeader) error {
	data, err := json.Marshal(leaders)
	if err != nil {
		return fmt.Errorf("marshaling leaders: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
