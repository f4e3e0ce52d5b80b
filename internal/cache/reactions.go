package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/photogram/internal/model"
)

// ReactionCache caches a user's aggregated reaction feed as one JSON blob.
type ReactionCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewReactionCache(client *redis.Client, ttl time.Duration) *ReactionCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReactionCache{client: client, ttl: ttl}
}

func reactionKey(userID string) string { return fmt.Sprintf("reactions:%s", userID) }

// Get reports ok=false on a miss. A corrupt entry counts as a miss.
func (c *ReactionCache) Get(ctx context.Context, userID string) ([]model.Reaction, bool, error) {
	data, err := c.client.Get(ctx, reactionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []model.Reaction
	if err := json.Unmarshal(data, &out); err != nil {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return out, true, nil
}

func (c *ReactionCache) Set(ctx context.Context, userID string, items []model.Reaction) error {
	if items == nil {
		items = []model.Reaction{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reactionKey(userID), payload, c.ttl).Err()
}

// Invalidate drops the cached feeds of the given users in one round trip.
func (c *ReactionCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		pipe.Del(ctx, reactionKey(id))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Stats returns hit/miss counters since start.
func (c *ReactionCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
