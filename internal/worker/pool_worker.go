package worker

import (
	"context"
	"time"

	"todoService/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// StatSource - то, что умеет отдавать статистику пула (postgres.Storage)
type StatSource interface {
	Stat() *pgxpool.Stat
}

type PoolMonitor struct {
	source   StatSource
	interval time.Duration

	lastAcquireCount      int64
	lastEmptyAcquireCount int64
}

func NewPoolMonitor(source StatSource, interval *time.Duration) *PoolMonitor {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = time.Minute
	} else {
		intervalToSet = *interval
	}

	return &PoolMonitor{
		source:   source,
		interval: intervalToSet,
	}
}

func (w *PoolMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Мониторинг пула запущен", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Мониторинг пула останавливается")
			return
		}
	}
}

// Check пишет снимок пула. Счётчики acquire в логе - прирост с прошлой проверки.
func (w *PoolMonitor) Check(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	stat := w.source.Stat()
	if stat == nil {
		logger.Warn("Worker: Статистика пула недоступна")
		return
	}

	acquireDelta := stat.AcquireCount() - w.lastAcquireCount
	emptyDelta := stat.EmptyAcquireCount() - w.lastEmptyAcquireCount
	w.lastAcquireCount = stat.AcquireCount()
	w.lastEmptyAcquireCount = stat.EmptyAcquireCount()

	fields := []zap.Field{
		zap.Int32("total_conns", stat.TotalConns()),
		zap.Int32("idle_conns", stat.IdleConns()),
		zap.Int32("acquired_conns", stat.AcquiredConns()),
		zap.Int32("max_conns", stat.MaxConns()),
		zap.Int64("acquires", acquireDelta),
		zap.Int64("empty_acquires", emptyDelta),
		zap.Duration("acquire_duration", stat.AcquireDuration()),
	}

	if stat.MaxConns() > 0 && stat.AcquiredConns() >= stat.MaxConns() {
		logger.Warn("Worker: Пул соединений исчерпан", fields...)
		return
	}
	logger.Info("Worker: Состояние пула", fields...)
}
