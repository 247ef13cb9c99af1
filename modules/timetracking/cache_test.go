package timetracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/timeentry"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu        sync.Mutex
	gens      map[string]int64
	items     map[string]timeentry.Summary
	lookups   int
	failGet   bool
	onLookup  func()
	beforeSet func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{gens: make(map[string]int64), items: make(map[string]timeentry.Summary)}
}

// warnLogger counts warnings and drops everything else.
type warnLogger struct {
	mockLogger
	warnings atomic.Int32
}

func (l *warnLogger) Warn(_ string, _ ...any) { l.warnings.Add(1) }

func itemKey(taskID string, gen int64) string { return fmt.Sprintf("%s@%d", taskID, gen) }

func (c *memoryCache) Generation(_ context.Context, taskID string) (int64, error) {
	c.mu.Lock()
	c.lookups++
	hook := c.onLookup
	gen := c.gens[taskID]
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return gen, nil
}

func (c *memoryCache) Get(_ context.Context, taskID string, gen int64) (*timeentry.Summary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	s, ok := c.items[itemKey(taskID, gen)]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *memoryCache) Set(_ context.Context, gen int64, s timeentry.Summary) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[itemKey(s.TaskID, gen)] = s
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, taskIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range taskIDs {
		c.gens[id]++
	}
	return nil
}

// has reports whether a summary is cached for the task's current generation.
func (c *memoryCache) has(taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[itemKey(taskID, c.gens[taskID])]
	return ok
}

func TestTaskSummary_CachedAndInvalidatedOnStop(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cache := newMemoryCache()
	f.svc = NewService(NewRepository(f.db), cache, f.clock.Now, newMockLogger())
	taskID := seedTask(t, f.db, f.userID, f.listID)

	summary, err := f.svc.TaskSummary(ctx, f.userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalSeconds)
	assert.True(t, cache.has(taskID))

	e, err := f.svc.Start(ctx, f.userID, taskID, "")
	require.NoError(t, err)
	assert.False(t, cache.has(taskID), "start must invalidate")

	_, err = f.svc.TaskSummary(ctx, f.userID, taskID)
	require.NoError(t, err)
	f.clock.Advance(45 * time.Second)
	_, err = f.svc.Stop(ctx, f.userID, e.ID)
	require.NoError(t, err)
	assert.False(t, cache.has(taskID), "stop must invalidate")

	summary, err = f.svc.TaskSummary(ctx, f.userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, int64(45), summary.TotalSeconds)
	assert.Equal(t, int64(1), summary.EntryCount)
}

func TestTaskSummary_CacheNotConsultedForForeignTask(t *testing.T) {
	f := setup(t)
	cache := newMemoryCache()
	f.svc = NewService(NewRepository(f.db), cache, f.clock.Now, newMockLogger())
	otherUser, otherList := seedUser(t, f.db)
	foreign := seedTask(t, f.db, otherUser, otherList)

	require.NoError(t, cache.Set(context.Background(), 0, timeentry.NewSummary(foreign, 999, 3)))

	_, err := f.svc.TaskSummary(context.Background(), f.userID, foreign)
	require.Error(t, err)
	assert.Zero(t, cache.lookups)
}

func TestTaskSummary_CacheErrorFallsBackToStore(t *testing.T) {
	f := setup(t)
	cache := newMemoryCache()
	cache.failGet = true
	logger := &warnLogger{}
	f.svc = NewService(NewRepository(f.db), cache, f.clock.Now, logger)
	taskID := seedTask(t, f.db, f.userID, f.listID)

	summary, err := f.svc.TaskSummary(context.Background(), f.userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, summary.TaskID)
	assert.Equal(t, int32(1), logger.warnings.Load())
}

func TestTaskSummary_LoadRacingStopIsNotServedAfterward(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cache := newMemoryCache()
	f.svc = NewService(NewRepository(f.db), cache, f.clock.Now, newMockLogger())
	taskID := seedTask(t, f.db, f.userID, f.listID)

	e, err := f.svc.Start(ctx, f.userID, taskID, "")
	require.NoError(t, err)
	f.clock.Advance(125 * time.Second)

	// The stop commits after the load read the store and before it caches.
	cache.beforeSet = func() {
		_, err := f.svc.Stop(ctx, f.userID, e.ID)
		require.NoError(t, err)
	}
	early, err := f.svc.TaskSummary(ctx, f.userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), early.TotalSeconds)

	summary, err := f.svc.TaskSummary(ctx, f.userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, int64(125), summary.TotalSeconds)
	assert.Equal(t, int64(1), summary.EntryCount)
}

func TestTaskSummary_CallerCancellationDoesNotFailLoad(t *testing.T) {
	f := setup(t)
	cache := newMemoryCache()
	f.svc = NewService(NewRepository(f.db), cache, f.clock.Now, newMockLogger())
	taskID := seedTask(t, f.db, f.userID, f.listID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.onLookup = cancel

	summary, err := f.svc.TaskSummary(ctx, f.userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, summary.TaskID)
	assert.True(t, cache.has(taskID))
}

func TestTaskSummary_WithoutCacheReflectsStop(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	taskID := seedTask(t, f.db, f.userID, f.listID)

	e, err := f.svc.Start(ctx, f.userID, taskID, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.TaskSummary(ctx, f.userID, taskID)
		}()
	}
	f.clock.Advance(30 * time.Second)
	_, err = f.svc.Stop(ctx, f.userID, e.ID)
	require.NoError(t, err)

	summary, err := f.svc.TaskSummary(ctx, f.userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), summary.TotalSeconds)
	wg.Wait()
}

func TestInvalidateSummaries(t *testing.T) {
	f := setup(t)
	cache := newMemoryCache()
	f.svc = NewService(NewRepository(f.db), cache, f.clock.Now, newMockLogger())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 0, timeentry.NewSummary("a", 1, 1)))
	require.NoError(t, cache.Set(ctx, 0, timeentry.NewSummary("b", 1, 1)))
	require.NoError(t, cache.Set(ctx, 0, timeentry.NewSummary("c", 1, 1)))

	f.svc.InvalidateSummaries(ctx, "a", "b")
	assert.False(t, cache.has("a"))
	assert.False(t, cache.has("b"))
	assert.True(t, cache.has("c"))
}

func setupRedis(t *testing.T) *RedisSummaryCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	c := NewRedisSummaryCache(client, "test:summary:"+uuid.NewString()+":", time.Minute)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisSummaryCache_RoundTrip(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.False(t, found)

	gen, err := c.Generation(ctx, "task-1")
	require.NoError(t, err)
	assert.Zero(t, gen)

	want := timeentry.NewSummary("task-1", 3725, 2)
	require.NoError(t, c.Set(ctx, gen, want))

	got, found, err := c.Get(ctx, "task-1", gen)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, *got)

	require.NoError(t, c.Invalidate(ctx, "task-1"))
	next, err := c.Generation(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	_, found, err = c.Get(ctx, "task-1", next)
	require.NoError(t, err)
	assert.False(t, found)

	// A load that started before the invalidation writes where nobody reads.
	require.NoError(t, c.Set(ctx, gen, timeentry.NewSummary("task-1", 1, 1)))
	_, found, err = c.Get(ctx, "task-1", next)
	require.NoError(t, err)
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(3), stats.Misses)
	assert.Equal(t, uint64(2), stats.Sets)
	assert.Equal(t, uint64(1), stats.Invalidations)
}

func TestNewRedisSummaryCache_Defaults(t *testing.T) {
	c := NewRedisSummaryCache(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "", 0)
	defer c.Close()
	assert.Equal(t, "summary:", c.prefix)
	assert.Equal(t, 5*time.Minute, c.ttl)
	assert.Equal(t, 24*time.Hour, c.genTTL)

	long := NewRedisSummaryCache(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "", 48*time.Hour)
	defer long.Close()
	assert.Equal(t, 96*time.Hour, long.genTTL)
}
