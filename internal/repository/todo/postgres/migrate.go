package postgres

import (
	"context"
	"errors"
	"fmt"

	"todoService/internal/logger"
	"todoService/internal/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrate накатывает встроенную схему todos. Повторный вызов ничего не меняет.
func (s *Storage) Migrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("Repository: Применение миграций")

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Error("Repository: Не удалось открыть миграции", err)
		return fmt.Errorf("чтение миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, s.connString)
	if err != nil {
		logger.Error("Repository: Не удалось создать мигратор", err)
		return fmt.Errorf("создание мигратора: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("Repository: Ошибка закрытия мигратора",
				zap.NamedError("source", srcErr),
				zap.NamedError("database", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Не удалось применить миграции", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", err)
	}

	logger.Info("Repository: Миграции применены",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}
