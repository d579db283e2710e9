package main

import (
	"context"
	"flag"
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
		fmt.Fprintf(os.Stderr, "ledger run failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dryRun := flag.Bool("dry-run", false, "scrape without writing to the ledger")
	targetID := flag.String("target", "", "restrict the run to a single target id")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("ledger starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(ctx, cfg, log, app.Options{
		DryRun:   *dryRun,
		TargetID: *targetID,
	})
	if err != nil {
		log.Error("failed to initialize runner", zap.Error(err))
		return err
	}

	if err := runner.RunOnce(ctx); err != nil {
		return fmt.Errorf("ledger run: %w", err)
	}

	return nil
}
