package task_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/todo/internal/task"
	"github.com/kazz187/todo/internal/task/repositoryimpl"
	"github.com/kazz187/todo/pkg/cerr"
	"github.com/kazz187/todo/pkg/storage"
)

func newService(t *testing.T) *task.Service {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return task.NewService(repositoryimpl.NewYAMLRepository(s))
}

func ptr[T any](v T) *T { return &v }

func TestService_CreateTask(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, title := range []string{"Buy milk", "  Buy milk  ", "\tBuy milk\n"} {
		created, err := svc.CreateTask(ctx, ptr(title))
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", created.Title)
		assert.False(t, created.IsCompleted)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
	}
}

func TestService_CreateTask_RequiresTitle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for name, title := range map[string]*string{
		"omitted": nil,
		"empty":   ptr(""),
		"blank":   ptr("   "),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateTask(ctx, title)
			require.Error(t, err)
			assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
			assert.Equal(t, task.MsgTitleRequired, err.(*cerr.Error).Msg)
		})
	}

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestService_ListTasks_EmptyIsNotNil(t *testing.T) {
	tasks, err := newService(t).ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Len(t, tasks, 0)
}

func TestService_ListTasks_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a, err := svc.CreateTask(ctx, ptr("A"))
	require.NoError(t, err)
	b, err := svc.CreateTask(ctx, ptr("B"))
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, a.ID, tasks[1].ID)
}

func TestService_UpdateTask_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.CreateTask(ctx, ptr("Toggle me"))
	require.NoError(t, err)

	done, err := svc.UpdateTask(ctx, created.ID, task.UpdateInput{IsCompleted: ptr(true)})
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	undone, err := svc.UpdateTask(ctx, created.ID, task.UpdateInput{IsCompleted: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, created.IsCompleted, undone.IsCompleted)
	assert.Equal(t, "Toggle me", undone.Title)
	assert.True(t, done.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, undone.UpdatedAt.After(done.UpdatedAt))
}

func TestService_UpdateTask_BlankTitleIsIgnored(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.CreateTask(ctx, ptr("Keep me"))
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, created.ID, task.UpdateInput{Title: ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "Keep me", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	// The rest of the update still applies.
	updated, err = svc.UpdateTask(ctx, created.ID, task.UpdateInput{Title: ptr(""), IsCompleted: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Keep me", updated.Title)
	assert.True(t, updated.IsCompleted)
}

func TestService_UpdateTask_TrimsTitle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.CreateTask(ctx, ptr("Old"))
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, created.ID, task.UpdateInput{Title: ptr("  New  ")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.False(t, updated.IsCompleted)
}

func TestService_DeletedTaskIsGone(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.CreateTask(ctx, ptr("Delete me"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	_, err = svc.UpdateTask(ctx, created.ID, task.UpdateInput{IsCompleted: ptr(true)})
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
	assert.Equal(t, task.MsgTaskNotFound, err.(*cerr.Error).Msg)

	err = svc.DeleteTask(ctx, created.ID)
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
	assert.Equal(t, task.MsgTaskNotFound, err.(*cerr.Error).Msg)
}
