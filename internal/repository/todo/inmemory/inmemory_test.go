package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"todoService/internal/models/todo"
	"todoService/internal/repository"
	"todoService/internal/repository/todo/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// frozenClock всегда возвращает одно и то же время
func frozenClock() time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}

// TestTodoStorage_HealthCheck тестирует проверку здоровья
func TestTodoStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTodoStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := storage.HealthCheck(ctx)
	assert.True(t, repository.IsStoreError(err))
}

// TestTodoStorage_Create тестирует создание задачи
func TestTodoStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created, err := storage.Create(ctx, todo.CreateRequest{Title: "Buy milk"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Nil(t, created.Description)
	assert.False(t, created.Completed)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	retrieved, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, retrieved)
}

func TestTodoStorage_Create_WithFields(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created, err := storage.Create(ctx, todo.CreateRequest{
		Title:       "Walk dog",
		Description: strPtr("twice"),
		Completed:   boolPtr(true),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Description)
	assert.Equal(t, "twice", *created.Description)
	assert.True(t, created.Completed)
}

// TestTodoStorage_Create_UniqueIDs идентификаторы не повторяются
func TestTodoStorage_Create_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	seen := make(map[uuid.UUID]struct{})
	for i := 0; i < 100; i++ {
		created, err := storage.Create(ctx, todo.CreateRequest{Title: "t"})
		require.NoError(t, err)
		_, dup := seen[created.ID]
		require.False(t, dup)
		seen[created.ID] = struct{}{}
	}
}

// TestTodoStorage_GetByID тестирует получение несуществующей задачи
func TestTodoStorage_GetByID(t *testing.T) {
	storage := inmemory.NewTodoStorage()

	_, err := storage.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTodoStorage_ReturnsCopies изменение результата не меняет хранилище
func TestTodoStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created, err := storage.Create(ctx, todo.CreateRequest{Title: "Original", Description: strPtr("desc")})
	require.NoError(t, err)

	created.Title = "Mutated"
	*created.Description = "mutated"

	retrieved, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", retrieved.Title)
	assert.Equal(t, "desc", *retrieved.Description)
}

// TestTodoStorage_Update тестирует частичное обновление
func TestTodoStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage().WithClock(frozenClock)

	created, err := storage.Create(ctx, todo.CreateRequest{Title: "Original", Description: strPtr("keep")})
	require.NoError(t, err)

	updated, err := storage.Update(ctx, created.ID, todo.UpdateRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "keep", *updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at должен строго расти даже при замороженных часах")

	cleared, err := storage.Update(ctx, created.ID, todo.UpdateRequest{Description: todo.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.True(t, cleared.Completed)
	assert.True(t, cleared.UpdatedAt.After(updated.UpdatedAt))
}

func TestTodoStorage_Update_Errors(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created, err := storage.Create(ctx, todo.CreateRequest{Title: "Target"})
	require.NoError(t, err)

	_, err = storage.Update(ctx, created.ID, todo.UpdateRequest{})
	assert.ErrorIs(t, err, repository.ErrNoFieldsToUpdate)

	_, err = storage.Update(ctx, uuid.New(), todo.UpdateRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTodoStorage_Delete удаление дважды даёт NotFound
func TestTodoStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created, err := storage.Create(ctx, todo.CreateRequest{Title: "Task to delete"})
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, created.ID))
	assert.ErrorIs(t, storage.Delete(ctx, created.ID), repository.ErrNotFound)

	_, err = storage.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := storage.List(ctx, todo.Pagination{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, all)
}

// TestTodoStorage_List тестирует порядок и пагинацию
func TestTodoStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage().WithClock(frozenClock)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		created, err := storage.Create(ctx, todo.CreateRequest{Title: fmt.Sprintf("Todo %d", i)})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	all, err := storage.List(ctx, todo.Pagination{Limit: 100})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt))
	}
	assert.Equal(t, ids[4], all[0].ID)
	assert.Equal(t, ids[0], all[4].ID)

	first, err := storage.List(ctx, todo.Pagination{Skip: 0, Limit: 2})
	require.NoError(t, err)
	second, err := storage.List(ctx, todo.Pagination{Skip: 2, Limit: 2})
	require.NoError(t, err)
	third, err := storage.List(ctx, todo.Pagination{Skip: 4, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
	assert.Len(t, third, 1)

	paged := append(append(first, second...), third...)
	assert.Equal(t, all, paged)

	beyond, err := storage.List(ctx, todo.Pagination{Skip: 50, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

// TestTodoStorage_Concurrent тестирует параллельный доступ
func TestTodoStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := storage.Create(ctx, todo.CreateRequest{Title: fmt.Sprintf("Todo %d", i)})
			assert.NoError(t, err)
			_, err = storage.Update(ctx, created.ID, todo.UpdateRequest{Completed: boolPtr(true)})
			assert.NoError(t, err)
			_, err = storage.List(ctx, todo.Pagination{Limit: 10})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := storage.List(ctx, todo.Pagination{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, all, 50)
	for _, item := range all {
		assert.True(t, item.Completed)
	}
}

func TestTodoStorage_CanceledContext(t *testing.T) {
	storage := inmemory.NewTodoStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Create(ctx, todo.CreateRequest{Title: "x"})
	assert.True(t, repository.IsStoreError(err))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = storage.List(ctx, todo.Pagination{Limit: 1})
	assert.True(t, repository.IsStoreError(err))
}
