package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/todo"
	repo "todoService/internal/repository"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQueryThreshold = 100 * time.Millisecond

type Options struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	// ConnectTimeout ограничивает повторные ping при старте
	ConnectTimeout time.Duration
}

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, connString string, opts Options) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = opts.ConnectTimeout
	if policy.MaxElapsedTime <= 0 {
		policy.MaxElapsedTime = 30 * time.Second
	}

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("Repository: PostgreSQL недоступен, повтор",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL",
		zap.Int32("max_conns", config.MaxConns),
		zap.Int32("min_conns", config.MinConns))
	return &Storage{pool: pool, connString: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return repo.NewStoreError("проверка соединения ping", err)
	}
	return nil
}

// Stat отдаёт статистику пула для фонового монитора
func (s *Storage) Stat() *pgxpool.Stat {
	return s.pool.Stat()
}

// List возвращает задачи от новых к старым
func (s *Storage) List(ctx context.Context, page todo.Pagination) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + returningColumns + `
				FROM todos
				ORDER BY created_at DESC, id DESC
				OFFSET $1 LIMIT $2`

	rows, err := s.pool.Query(ctx, query, page.Skip, page.Limit)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, repo.NewStoreError("получение задач", err)
	}

	todos, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[todo.Todo])
	if err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, repo.NewStoreError("итерация по строкам", err)
	}
	if todos == nil {
		todos = []*todo.Todo{}
	}

	logSlow("list", start)
	return todos, nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + returningColumns + `
				FROM todos
				WHERE id = $1`

	item, err := scanTodo(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err,
			zap.String("todo_id", id.String()),
			zap.Duration("ms", time.Since(start)))
		return nil, repo.NewStoreError("получение задачи", err)
	}

	logSlow("get", start)
	return item, nil
}

// Create вставляет задачу; created_at и updated_at выставляет база одним NOW()
func (s *Storage) Create(ctx context.Context, req todo.CreateRequest) (*todo.Todo, error) {
	start := time.Now()

	query := `INSERT INTO todos
				(id, title, description, completed)
				VALUES ($1, $2, $3, $4)
				RETURNING ` + returningColumns

	item, err := scanTodo(s.pool.QueryRow(ctx, query,
		uuid.New(),
		req.Title,
		req.Description,
		req.CompletedOrDefault(),
	))
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, repo.NewStoreError("добавление задачи", err)
	}

	logSlow("create", start)
	return item, nil
}

// Update меняет только переданные колонки; отсутствие строки определяется
// тем же запросом через RETURNING, без отдельного SELECT.
func (s *Storage) Update(ctx context.Context, id uuid.UUID, req todo.UpdateRequest) (*todo.Todo, error) {
	start := time.Now()

	query, args, err := buildUpdateQuery(id, req.Changes())
	if err != nil {
		return nil, err
	}

	item, err := scanTodo(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err,
			zap.String("todo_id", id.String()),
			zap.Duration("ms", time.Since(start)))
		return nil, repo.NewStoreError("обновление задачи", err)
	}

	logSlow("update", start)
	return item, nil
}

// Delete удаляет строку физически
func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err,
			zap.String("todo_id", id.String()),
			zap.Duration("ms", time.Since(start)))
		return repo.NewStoreError("удаление задачи", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	logSlow("delete", start)
	return nil
}

func scanTodo(row pgx.Row) (*todo.Todo, error) {
	item := &todo.Todo{}
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Completed,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func logSlow(operation string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", operation),
			zap.Duration("ms", elapsed))
	}
}
