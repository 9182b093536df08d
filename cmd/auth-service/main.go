package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angaddubey10/oauth-demo/internal/app"
	"github.com/angaddubey10/oauth-demo/internal/config"
	"github.com/angaddubey10/oauth-demo/internal/logger"
)

func main() {
	logger.Init()

	cfg, err := config.LoadAuth()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.NewAuthService(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize auth service", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := application.Run(); err != nil {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("auth-service started", "port", cfg.Port)

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("auth-service stopped cleanly")
}
