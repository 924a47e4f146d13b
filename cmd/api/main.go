package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todoService/internal/app"
	"todoService/internal/config"
	"todoService/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфигурация:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Инициализация:", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: Сервер завершился с ошибкой", err)
		logger.Sync()
		os.Exit(1)
	}
}
