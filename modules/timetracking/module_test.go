package timetracking

import (
	"context"
	"testing"

	"github.com/example/task-tracker/domain/failure"
	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startModule(t *testing.T, cacheCfg CacheConfig) *Module {
	t.Helper()
	ctx := context.Background()
	store := storage.NewModule(storage.Config{DSN: ":memory:"}, newMockLogger())
	require.NoError(t, store.Start(ctx))
	t.Cleanup(func() { store.Stop(ctx) })

	m := NewModule(store, cacheCfg, newMockLogger())
	require.NoError(t, m.Start(ctx))
	t.Cleanup(func() { m.Stop(ctx) })
	return m
}

func TestModule_ServicesCarryFailures(t *testing.T) {
	m := startModule(t, CacheConfig{})
	ctx := context.Background()
	db := m.store.DB()
	userID, listID := seedUser(t, db)
	taskID := seedTask(t, db, userID, listID)

	started, err := m.startTimer(ctx, StartTimerRequest{UserID: userID, TaskID: taskID}, nil)
	require.NoError(t, err)
	require.Nil(t, started.Failed())
	require.NotNil(t, started.Entry)

	again, err := m.startTimer(ctx, StartTimerRequest{UserID: userID, TaskID: taskID}, nil)
	require.NoError(t, err)
	require.NotNil(t, again.Failed())
	assert.Equal(t, failure.CodeTimerAlreadyRunning, again.Failed().Code)

	active, err := m.activeTimer(ctx, ActiveTimerRequest{UserID: userID}, nil)
	require.NoError(t, err)
	require.NotNil(t, active.Entry)
	assert.Equal(t, started.Entry.ID, active.Entry.ID)

	stopped, err := m.stopTimer(ctx, StopTimerRequest{UserID: userID, EntryID: started.Entry.ID}, nil)
	require.NoError(t, err)
	require.Nil(t, stopped.Failed())
	require.NotNil(t, stopped.Entry.EndTime)

	missing, err := m.stopTimer(ctx, StopTimerRequest{UserID: userID, EntryID: started.Entry.ID}, nil)
	require.NoError(t, err)
	require.NotNil(t, missing.Failed())
	assert.Equal(t, failure.CodeNotFound, missing.Failed().Code)
	assert.ErrorIs(t, missing.Failed().Err(), failure.ErrNotFound)

	summary, err := m.taskSummary(ctx, TaskSummaryRequest{UserID: userID, TaskID: taskID}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Summary.EntryCount)

	listed, err := m.listEntries(ctx, ListEntriesRequest{UserID: userID}, nil)
	require.NoError(t, err)
	assert.Len(t, listed.Entries, 1)

	described, err := m.describeEntry(ctx, DescribeEntryRequest{UserID: userID, EntryID: started.Entry.ID, Description: "done"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", described.Entry.Description)
}

func TestModule_StartsWithoutRedis(t *testing.T) {
	m := startModule(t, CacheConfig{RedisAddr: "127.0.0.1:1"})

	assert.Nil(t, m.cache)
	health := m.Health(context.Background())
	assert.True(t, health.Healthy)
	assert.Equal(t, "disabled", health.Details["cache"])
}

func TestModule_DeletionEventsInvalidateSummaries(t *testing.T) {
	m := startModule(t, CacheConfig{})
	ctx := context.Background()
	cache := newMemoryCache()
	m.service = NewService(NewRepository(m.store.DB()), cache, nil, newMockLogger())

	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, cache.Set(ctx, 0, timeentry.NewSummary(id, 10, 1)))
	}

	require.NoError(t, m.handleTaskDeleted(ctx, events.TaskDeletedEvent{TaskID: "t1"}, nil))
	assert.False(t, cache.has("t1"))

	require.NoError(t, m.handleListDeleted(ctx, events.ListDeletedEvent{ListID: "l1", DeletedTaskIDs: []string{"t2"}}, nil))
	assert.False(t, cache.has("t2"))
	assert.True(t, cache.has("t3"))
}
