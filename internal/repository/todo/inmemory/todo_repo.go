package inmemory

import (
	"context"
	"sync"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/todo"
	repo "todoService/internal/repository"

	"github.com/google/uuid"
)

// TodoStorage хранит задачи в памяти процесса. Метки времени с точностью
// до микросекунды, как у timestamptz, и строго возрастают.
type TodoStorage struct {
	storage map[uuid.UUID]*todo.Todo
	mtx     *sync.RWMutex
	ids     []uuid.UUID // порядок вставки, он же порядок created_at
	now     func() time.Time
	last    time.Time
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[uuid.UUID]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
		now:     time.Now,
	}
}

// WithClock подменяет источник времени
func (s *TodoStorage) WithClock(now func() time.Time) *TodoStorage {
	s.now = now
	return s
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return repo.NewStoreError("проверка хранилища", err)
	}
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TodoStorage) List(ctx context.Context, page todo.Pagination) ([]*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, repo.NewStoreError("получение задач", err)
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*todo.Todo{}
	if page.Skip >= int64(len(s.ids)) {
		return res, nil
	}

	// от новых к старым
	for i := len(s.ids) - 1 - int(page.Skip); i >= 0; i-- {
		if int64(len(res)) >= page.Limit {
			break
		}
		res = append(res, clone(s.storage[s.ids[i]]))
	}

	return res, nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, repo.NewStoreError("получение задачи", err)
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	item, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(item), nil
}

func (s *TodoStorage) Create(ctx context.Context, req todo.CreateRequest) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, repo.NewStoreError("добавление задачи", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.tick()
	item := &todo.Todo{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: copyString(req.Description),
		Completed:   req.CompletedOrDefault(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.storage[item.ID] = item
	s.ids = append(s.ids, item.ID)
	return clone(item), nil
}

func (s *TodoStorage) Update(ctx context.Context, id uuid.UUID, req todo.UpdateRequest) (*todo.Todo, error) {
	changes := req.Changes()
	if len(changes) == 0 {
		return nil, repo.ErrNoFieldsToUpdate
	}
	if err := ctx.Err(); err != nil {
		return nil, repo.NewStoreError("обновление задачи", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	item, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	for _, change := range changes {
		change.Apply(item)
	}
	item.UpdatedAt = s.tick()

	return clone(item), nil
}

func (s *TodoStorage) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return repo.NewStoreError("удаление задачи", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// tick вызывается под записывающей блокировкой
func (s *TodoStorage) tick() time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func clone(item *todo.Todo) *todo.Todo {
	copied := *item
	copied.Description = copyString(item.Description)
	return &copied
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
