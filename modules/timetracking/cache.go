package timetracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/task-tracker/domain/timeentry"
	"github.com/redis/go-redis/v9"
)

// SummaryCache stores task summaries between reads. Implementations must
// not be consulted before the task's ownership is checked.
//
// Summaries are stored per task generation. Invalidate moves a task to a new
// generation, so a load that read the store before a write can only cache
// its result under a generation no reader asks for any more.
type SummaryCache interface {
	Generation(ctx context.Context, taskID string) (int64, error)
	Get(ctx context.Context, taskID string, gen int64) (*timeentry.Summary, bool, error)
	Set(ctx context.Context, gen int64, summary timeentry.Summary) error
	Invalidate(ctx context.Context, taskIDs ...string) error
}

// CacheConfig holds the Redis summary cache configuration.
// An empty RedisAddr disables caching.
type CacheConfig struct {
	RedisAddr string
	Prefix    string
	TTL       time.Duration
}

// CacheStats counts cache traffic.
type CacheStats struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Sets          uint64 `json:"sets"`
	Invalidations uint64 `json:"invalidations"`
	Errors        uint64 `json:"errors"`
}

// RedisSummaryCache is a cache-aside SummaryCache backed by Redis.
type RedisSummaryCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	genTTL time.Duration
	stats  CacheStats
}

var _ SummaryCache = (*RedisSummaryCache)(nil)

// NewRedisSummaryCache wraps an existing client.
func NewRedisSummaryCache(client *redis.Client, prefix string, ttl time.Duration) *RedisSummaryCache {
	if prefix == "" {
		prefix = "summary:"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	// A generation key must outlive every summary stored under it.
	genTTL := 24 * time.Hour
	if genTTL < 2*ttl {
		genTTL = 2 * ttl
	}
	return &RedisSummaryCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		genTTL: genTTL,
	}
}

func (c *RedisSummaryCache) summaryKey(taskID string, gen int64) string {
	return fmt.Sprintf("%s%s:%d", c.prefix, taskID, gen)
}

func (c *RedisSummaryCache) generationKey(taskID string) string {
	return c.prefix + "gen:" + taskID
}

// Generation returns the task's current generation. A task that was never
// invalidated is at generation zero.
func (c *RedisSummaryCache) Generation(ctx context.Context, taskID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(taskID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return 0, fmt.Errorf("cache generation error: %w", err)
	}
	return gen, nil
}

// Get returns the summary cached for the generation and whether it was present.
func (c *RedisSummaryCache) Get(ctx context.Context, taskID string, gen int64) (*timeentry.Summary, bool, error) {
	data, err := c.client.Get(ctx, c.summaryKey(taskID, gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddUint64(&c.stats.Misses, 1)
			return nil, false, nil
		}
		atomic.AddUint64(&c.stats.Errors, 1)
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var s timeentry.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return nil, false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	atomic.AddUint64(&c.stats.Hits, 1)
	return &s, true, nil
}

// Set stores a summary under the generation it was loaded at.
func (c *RedisSummaryCache) Set(ctx context.Context, gen int64, summary timeentry.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.summaryKey(summary.TaskID, gen), data, c.ttl).Err(); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return fmt.Errorf("cache set error: %w", err)
	}
	atomic.AddUint64(&c.stats.Sets, 1)
	return nil
}

// Invalidate advances the generation of the given tasks. Summaries of older
// generations are never read again and expire with their TTL.
func (c *RedisSummaryCache) Invalidate(ctx context.Context, taskIDs ...string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	pipe := c.client.TxPipeline()
	for _, id := range taskIDs {
		key := c.generationKey(id)
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, c.genTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return fmt.Errorf("cache invalidate error: %w", err)
	}
	atomic.AddUint64(&c.stats.Invalidations, uint64(len(taskIDs)))
	return nil
}

// Stats returns a snapshot of the counters.
func (c *RedisSummaryCache) Stats() CacheStats {
	return CacheStats{
		Hits:          atomic.LoadUint64(&c.stats.Hits),
		Misses:        atomic.LoadUint64(&c.stats.Misses),
		Sets:          atomic.LoadUint64(&c.stats.Sets),
		Invalidations: atomic.LoadUint64(&c.stats.Invalidations),
		Errors:        atomic.LoadUint64(&c.stats.Errors),
	}
}

// Ping checks the Redis connection.
func (c *RedisSummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}
