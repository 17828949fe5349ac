package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	alice := &entity.User{Username: "alice", Email: "alice@x.com", Password: "hash"}
	require.NoError(t, r.Create(ctx, alice))
	require.NotEmpty(t, alice.ID)
	require.False(t, alice.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = r.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = r.GetByEmailOrUsername(ctx, "other@x.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = r.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	require.NoError(t, r.Create(ctx, &entity.User{Username: "alice", Email: "alice@x.com"}))

	err := r.Create(ctx, &entity.User{Username: "alice", Email: "new@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateIdentity)
	err = r.Create(ctx, &entity.User{Username: "bob", Email: "alice@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateIdentity)
}

func TestTaskRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()

	task := &entity.Task{Title: "Write docs", Status: entity.StatusTodo, Priority: entity.PriorityMedium, OwnerID: "u1", Tags: []string{"a", "b"}}
	require.NoError(t, r.Create(ctx, task))
	require.NotEmpty(t, task.ID)

	got, err := r.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tags)

	// mutating a read copy must not leak into the store
	got.Tags[0] = "z"
	again, err := r.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Tags[0])

	got.Title = "Renamed"
	got.OwnerID = "intruder"
	require.NoError(t, r.Update(ctx, got))
	again, err = r.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Title)
	assert.Equal(t, "u1", again.OwnerID)

	require.NoError(t, r.Delete(ctx, task.ID))
	_, err = r.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, task.ID), repository.ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, got), repository.ErrNotFound)
}

func TestTaskRepository_ListByOwnerKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, r.Create(ctx, &entity.Task{Title: title, OwnerID: "u1"}))
	}
	require.NoError(t, r.Create(ctx, &entity.Task{Title: "other", OwnerID: "u2"}))

	list, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "one", list[0].Title)
	assert.Equal(t, "three", list[2].Title)

	empty, err := r.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTaskRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Create(ctx, &entity.Task{Title: "t", OwnerID: "u1"})
		}()
		go func() {
			defer wg.Done()
			_, _ = r.ListByOwner(ctx, "u1")
		}()
	}
	wg.Wait()

	list, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 20)
}
