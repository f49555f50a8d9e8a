package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"credit-agent/internal/app"
	"credit-agent/internal/config"
	"credit-agent/internal/transport/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to build chat service", "err", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	srv, err := web.NewApp(a.Chat)
	if err != nil {
		slog.Error("failed to create web app", "err", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		_ = srv.Shutdown()
	}()

	slog.Info("listening", "addr", cfg.HTTPAddr)
	if err := srv.Listen(cfg.HTTPAddr); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
