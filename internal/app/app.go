package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoService/internal/config"
	"todoService/internal/handlers"
	"todoService/internal/logger"
	"todoService/internal/repository/todo/inmemory"
	"todoService/internal/repository/todo/postgres"
	"todoService/internal/worker"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	handler    http.Handler
	repository handlers.TodoRepository
	worker     *worker.PoolMonitor
	shutdowns  []func() // выполняются в обратном порядке после остановки сервера
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		a.Close()
		return err
	}

	todoHandler := handlers.NewTodoHandler(a.repository, a.config.Service.Name)
	a.handler = otelhttp.NewHandler(NewRouter(todoHandler), a.config.Service.Name)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.handler,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("service", a.config.Service.Name),
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		a.repository = inmemory.NewTodoStorage()
		return nil

	case config.RepositoryPostgres:
		db := a.config.Database
		storage, err := postgres.New(ctx, db.URL, postgres.Options{
			MaxConns:        db.MaxConnections,
			MinConns:        db.MinConnections,
			MaxConnIdleTime: db.IdleTimeout,
			ConnectTimeout:  db.ConnectTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: Закрытие пула соединений")
			storage.Close()
		})

		if db.Migrate {
			if err := storage.Migrate(ctx); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}
		}

		if interval := a.config.Worker.PoolStatsInterval; interval > 0 {
			a.worker = worker.NewPoolMonitor(storage, &interval)
		}

		a.repository = storage
		return nil

	default:
		return fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
}

// Handler - собранный обработчик со всеми middleware
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run блокируется до отмены ctx или падения сервера, затем останавливает всё
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("App: Ошибка сервера", err)
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка сервера")

		timeout := a.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			logger.Error("App: Сервер не остановился вовремя", err)
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Start(gctx)
			return nil
		})
	}

	return g.Wait()
}

// Close выполняет shutdowns один раз
func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
