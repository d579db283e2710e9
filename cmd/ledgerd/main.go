package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chronicle-hq/headline-ledger/internal/app"
	"github.com/chronicle-hq/headline-ledger/internal/config"
	"github.com/chronicle-hq/headline-ledger/internal/logger"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerd start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("ledgerd starting", zap.String("schedule", cfg.Schedule))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Error("failed to initialize runner", zap.Error(err))
		return err
	}

	if err := runner.Watch(ctx); err != nil {
		return fmt.Errorf("ledgerd watch: %w", err)
	}

	return nil
}
