package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type fakeCache struct {
	mu          sync.Mutex
	data        map[string]TaskStats
	invalidated []string
}

func (c *fakeCache) Get(_ context.Context, ownerID string) (*TaskStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.data[ownerID]
	if !ok {
		return nil, false
	}
	return &st, true
}

func (c *fakeCache) Set(_ context.Context, ownerID string, st TaskStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[ownerID] = st
}

func (c *fakeCache) Invalidate(_ context.Context, ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, ownerID)
	c.invalidated = append(c.invalidated, ownerID)
}

type fakeEvents struct{ events []TaskEvent }

func (f *fakeEvents) Publish(_ context.Context, ev TaskEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeIndexer struct {
	indexed []string
	removed []string
}

func (f *fakeIndexer) Index(_ context.Context, t *entity.Task) error {
	f.indexed = append(f.indexed, t.ID)
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

type taskFixture struct {
	svc   *TaskService
	alice string
	bob   string
}

func newTaskFixture(t *testing.T) taskFixture {
	t.Helper()
	ctx := context.Background()
	users := memory.NewUserRepository()
	alice := &entity.User{Username: "alice", Email: "alice@x.com", Password: "h"}
	bob := &entity.User{Username: "bob", Email: "bob@x.com", Password: "h"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	svc := NewTaskService(memory.NewTaskRepository(), users, helpers.NewDiscardLogger())
	return taskFixture{svc: svc, alice: alice.ID, bob: bob.ID}
}

func TestTaskService_CreateDefaults(t *testing.T) {
	f := newTaskFixture(t)
	task, err := f.svc.Create(context.Background(), f.alice, CreateTaskInput{Title: "  Write docs  "})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, entity.StatusTodo, task.Status)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, f.alice, task.OwnerID)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestTaskService_CreateValidation(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "   "})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Title is required", ve.Message)

	_, err = f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "x", Status: "done"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "status")

	_, err = f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "x", Priority: "urgent"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "priority")

	_, err = f.svc.Create(ctx, "ghost", CreateTaskInput{Title: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTaskService_CreateNormalizesDueDateAndTags(t *testing.T) {
	f := newTaskFixture(t)
	due := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	task, err := f.svc.Create(context.Background(), f.alice, CreateTaskInput{
		Title:   "Ship",
		DueDate: &due,
		Tags:    []string{" work ", "", "release"},
	})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *task.DueDate)
	assert.Equal(t, []string{"work", "release"}, task.Tags)
}

func TestTaskService_OwnershipIsExclusive(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.bob, task.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	title := "hijacked"
	_, err = f.svc.Update(ctx, f.bob, task.ID, UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, task.ID), ErrForbidden)

	got, err := f.svc.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)

	bobs, err := f.svc.List(ctx, f.bob, TaskQuery{})
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = f.svc.Get(ctx, f.alice, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_UpdateMergesFields(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	task, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "Draft", Description: "keep me", DueDate: &due, Tags: []string{"a"}})
	require.NoError(t, err)

	status := entity.StatusCompleted
	updated, err := f.svc.Update(ctx, f.alice, task.ID, UpdateTaskInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, updated.Status)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, []string{"a"}, updated.Tags)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))

	cleared, err := f.svc.Update(ctx, f.alice, task.ID, UpdateTaskInput{DueDateSet: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)

	empty := ""
	_, err = f.svc.Update(ctx, f.alice, task.ID, UpdateTaskInput{Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	bad := entity.Priority("urgent")
	_, err = f.svc.Update(ctx, f.alice, task.ID, UpdateTaskInput{Priority: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := f.svc.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityMedium, stored.Priority)
}

func TestTaskService_UpdatedAtAdvancesWithFrozenClock(t *testing.T) {
	f := newTaskFixture(t)
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return frozen }
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "tick"})
	require.NoError(t, err)
	desc := "changed"
	updated, err := f.svc.Update(ctx, f.alice, task.ID, UpdateTaskInput{Description: &desc})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
}

func TestTaskService_DeleteRemovesTask(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.alice, task.ID))
	_, err = f.svc.Get(ctx, f.alice, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.alice, task.ID), ErrNotFound)
}

func TestTaskService_ListRejectsInvalidQuery(t *testing.T) {
	f := newTaskFixture(t)
	_, err := f.svc.List(context.Background(), f.alice, TaskQuery{SortBy: "owner"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTaskService_StatsIgnoreFiltersAndUseCache(t *testing.T) {
	f := newTaskFixture(t)
	cache := &fakeCache{data: map[string]TaskStats{}}
	f.svc.Cache = cache
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "one", Status: entity.StatusCompleted})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "two"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.bob, CreateTaskInput{Title: "not alice's"})
	require.NoError(t, err)

	st, err := f.svc.Stats(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalTasks)
	assert.Equal(t, 1, st.CompletedTasks)
	assert.Equal(t, 50.0, st.CompletionRate)
	assert.Contains(t, cache.data, f.alice)

	_, err = f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "three"})
	require.NoError(t, err)
	assert.NotContains(t, cache.data, f.alice)

	st, err = f.svc.Stats(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalTasks)
}

// listHookRepo runs onList once, after the owner's tasks were read
type listHookRepo struct {
	repo.TaskRepository
	onList func()
}

func (r *listHookRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Task, error) {
	tasks, err := r.TaskRepository.ListByOwner(ctx, ownerID)
	if hook := r.onList; hook != nil {
		r.onList = nil
		hook()
	}
	return tasks, err
}

func TestTaskService_StatsSkipCacheWhenMutatedDuringCompute(t *testing.T) {
	f := newTaskFixture(t)
	cache := &fakeCache{data: map[string]TaskStats{}}
	f.svc.Cache = cache
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "one"})
	require.NoError(t, err)

	hooked := &listHookRepo{TaskRepository: f.svc.Repo}
	hooked.onList = func() {
		_, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "two"})
		require.NoError(t, err)
	}
	f.svc.Repo = hooked

	st, err := f.svc.Stats(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalTasks)
	assert.NotContains(t, cache.data, f.alice)

	st, err = f.svc.Stats(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalTasks)
	assert.Equal(t, 2, cache.data[f.alice].TotalTasks)
}

func TestTaskService_MutationsNotifyIndexerAndEvents(t *testing.T) {
	f := newTaskFixture(t)
	events := &fakeEvents{}
	indexer := &fakeIndexer{}
	f.svc.Events = events
	f.svc.Indexer = indexer
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice, CreateTaskInput{Title: "notify"})
	require.NoError(t, err)
	title := "renamed"
	_, err = f.svc.Update(ctx, f.alice, task.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, f.alice, task.ID))

	require.Len(t, events.events, 3)
	assert.Equal(t, TaskCreated, events.events[0].Type)
	assert.Equal(t, TaskUpdated, events.events[1].Type)
	assert.Equal(t, "renamed", events.events[1].Title)
	assert.Equal(t, TaskDeleted, events.events[2].Type)
	assert.Equal(t, []string{task.ID, task.ID}, indexer.indexed)
	assert.Equal(t, []string{task.ID}, indexer.removed)
}

func TestTaskService_Owner(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	u := f.svc.Owner(ctx, f.alice)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.Nil(t, f.svc.Owner(ctx, "ghost"))
}
