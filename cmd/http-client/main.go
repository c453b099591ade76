package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gold-catalog/internal/config"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/version"
)

func main() {
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.Instance()

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	if err := newRootCmd(cfg).ExecuteContext(globalCtx); err != nil {
		os.Exit(1)
	}
}
