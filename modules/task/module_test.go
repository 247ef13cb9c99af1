package task

import (
	"context"
	"testing"

	"github.com/example/task-tracker/domain/failure"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_ServicesCarryFailures(t *testing.T) {
	ctx := context.Background()
	store := storage.NewModule(storage.Config{DSN: ":memory:"}, newMockLogger())
	require.NoError(t, store.Start(ctx))
	t.Cleanup(func() { store.Stop(ctx) })

	m := NewModule(store, newMockLogger())
	require.NoError(t, m.Start(ctx))
	userID, inboxID := seedUser(t, store.DB())

	created, err := m.createTask(ctx, CreateTaskRequest{UserID: userID, CreateInput: CreateInput{ListID: inboxID, Title: "Plan"}}, nil)
	require.NoError(t, err)
	require.Nil(t, created.Failed())
	assert.Equal(t, domain.StatusPlanned, created.Task.Status)

	invalid, err := m.createTask(ctx, CreateTaskRequest{UserID: userID, CreateInput: CreateInput{ListID: inboxID}}, nil)
	require.NoError(t, err)
	require.NotNil(t, invalid.Failed())
	assert.Equal(t, failure.CodeValidation, invalid.Failed().Code)

	done, err := m.setStatus(ctx, SetStatusRequest{UserID: userID, TaskID: created.Task.ID, Status: "done"}, nil)
	require.NoError(t, err)
	require.Nil(t, done.Failed())
	assert.NotNil(t, done.Task.CompletedAt)

	foreign, err := m.getTask(ctx, GetTaskRequest{UserID: "someone-else", TaskID: created.Task.ID}, nil)
	require.NoError(t, err)
	require.NotNil(t, foreign.Failed())
	assert.Equal(t, failure.CodeNotFound, foreign.Failed().Code)

	listed, err := m.listTasks(ctx, ListTasksRequest{UserID: userID, Status: "done"}, nil)
	require.NoError(t, err)
	assert.Len(t, listed.Tasks, 1)

	deleted, err := m.deleteTask(ctx, DeleteTaskRequest{UserID: userID, TaskID: created.Task.ID}, nil)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	again, err := m.deleteTask(ctx, DeleteTaskRequest{UserID: userID, TaskID: created.Task.ID}, nil)
	require.NoError(t, err)
	require.NotNil(t, again.Failed())
	assert.Equal(t, failure.CodeNotFound, again.Failed().Code)
}

func TestModule_StartRequiresStorage(t *testing.T) {
	m := NewModule(storage.NewModule(storage.Config{}, newMockLogger()), newMockLogger())
	assert.Error(t, m.Start(context.Background()))
}
