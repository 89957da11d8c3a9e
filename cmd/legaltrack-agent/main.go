package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mait00/legaltrackswift-sub002/internal/app/agent"
	"github.com/mait00/legaltrackswift-sub002/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.Env)}))

	logger.Info("starting legaltrack-agent", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := agent.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("legaltrack-agent stopped gracefully")
}

func logLevel(env string) slog.Level {
	if env == "local" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
