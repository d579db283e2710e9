package app

import (
	"context"
	"fmt"
	"time"

	"github.com/chronicle-hq/headline-ledger/internal/config"
	"github.com/chronicle-hq/headline-ledger/internal/ledger"
	"github.com/chronicle-hq/headline-ledger/internal/scrape"
	"github.com/chronicle-hq/headline-ledger/pkg/httpclient"
	"github.com/chronicle-hq/headline-ledger/pkg/notify"
	"github.com/chronicle-hq/headline-ledger/pkg/targets"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner is the headline-ledger runtime. It wires the target registry, the
// scrape pipeline, the ledger stores, and the optional notification fanout
// behind a single run-once entry point; Watch adds a cron loop on top for
// local development.
type Runner struct {
	cfg       *config.Config
	targetReg *targets.Registry
	fanout    *notify.Fanout
	scrape    *scrape.Service
	runList   []targets.Target
	log       *zap.Logger
}

// Options adjusts runtime behavior from command-line flags.
type Options struct {
	// DryRun swaps the ledger for the no-op store; nothing is written.
	DryRun bool
	// TargetID restricts the run to a single target from the registry.
	TargetID string
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	targetReg, err := targets.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	targetList := targetReg.All()
	targetIDs := make([]string, 0, len(targetList))
	for _, t := range targetList {
		targetIDs = append(targetIDs, t.ID)
	}
	log.Info("targets registry loaded",
		zap.Int("count", len(targetIDs)),
		zap.Strings("ids", targetIDs),
	)

	runList := targetList
	if opts.TargetID != "" {
		t, ok := targetReg.ByID(opts.TargetID)
		if !ok {
			return nil, fmt.Errorf("target %q not found in %s", opts.TargetID, cfg.TargetsFile)
		}
		runList = []targets.Target{t}
	}

	fanout, err := buildFanout(cfg, log)
	if err != nil {
		return nil, err
	}

	ledgerFormat := cfg.LedgerFormat
	if opts.DryRun {
		ledgerFormat = ledger.FormatNone
	}
	stores := ledger.NewProvider(ledgerFormat, cfg.DataDir)
	log.Info("ledger initialized",
		zap.String("format", ledgerFormat),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("dry_run", opts.DryRun),
	)

	client := httpclient.NewRestyClient(cfg.HTTPTimeout, cfg.HTTPRetryCount)
	fetcher := scrape.NewPageFetcher(client)

	defaultHeaders := map[string]string{}
	if cfg.HTTPUserAgent != "" {
		defaultHeaders["User-Agent"] = cfg.HTTPUserAgent
	}

	svc := scrape.NewService(fetcher, stores, fanout, log, scrape.Options{
		DefaultLocation: cfg.Location,
		DefaultHeaders:  defaultHeaders,
	})

	return &Runner{
		cfg:       cfg,
		targetReg: targetReg,
		fanout:    fanout,
		scrape:    svc,
		runList:   runList,
		log:       log,
	}, nil
}

// buildFanout assembles the notifier fanout when a notifiers file is
// configured; otherwise notifications are disabled.
func buildFanout(cfg *config.Config, log *zap.Logger) (*notify.Fanout, error) {
	if cfg.NotifiersFile == "" {
		return notify.NewFanout(nil), nil
	}

	notifierReg, err := notify.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}

	enabled := notifierReg.Enabled()
	sinks, err := notify.BuildAll(notify.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	summaries := make([]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, c.ID+":"+c.Type)
	}
	log.Info("notifiers registry loaded",
		zap.Int("count", len(summaries)),
		zap.Strings("notifiers", summaries),
	)
	return notify.NewFanout(sinks), nil
}

// RunOnce executes one pipeline pass over the selected targets. It is the
// single entry point the external scheduler triggers; a failed target leaves
// its ledger untouched and surfaces in the joined error.
func (r *Runner) RunOnce(ctx context.Context) error {
	if r == nil || r.scrape == nil {
		return fmt.Errorf("runner is not initialized")
	}
	if len(r.runList) == 0 {
		return fmt.Errorf("no targets configured (targets_file %s)", r.cfg.TargetsFile)
	}

	runID := uuid.NewString()
	start := time.Now()
	r.log.Info("run started",
		zap.String("run_id", runID),
		zap.Int("targets_count", len(r.runList)),
		zap.Time("started_at", start.UTC()),
	)

	reports, err := r.scrape.Run(ctx, r.runList)
	for _, rep := range reports {
		r.log.Info("target report",
			zap.String("run_id", runID),
			zap.String("target_id", rep.TargetID),
			zap.String("phase", string(rep.Phase)),
			zap.String("headline", rep.Record.Headline),
		)
	}
	if err != nil {
		r.log.Error("run failed",
			zap.String("run_id", runID),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
			zap.Error(err),
		)
		return err
	}

	r.log.Info("run completed",
		zap.String("run_id", runID),
		zap.Int("targets_count", len(r.runList)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// Watch runs RunOnce on the configured cron schedule until the context is
// cancelled. Scheduling in production stays an external concern; this loop
// exists for long-lived local runs.
func (r *Runner) Watch(ctx context.Context) error {
	if r == nil || r.scrape == nil {
		return fmt.Errorf("runner is not initialized")
	}

	c := cron.New()
	_, err := c.AddFunc(r.cfg.Schedule, func() {
		if err := r.RunOnce(ctx); err != nil {
			r.log.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", r.cfg.Schedule, err)
	}

	r.log.Info("watch loop starting",
		zap.String("schedule", r.cfg.Schedule),
		zap.Int("targets_count", len(r.runList)),
		zap.Int("notifiers_count", r.fanout.Size()),
	)

	c.Start()
	<-ctx.Done()
	r.log.Info("watch loop exiting", zap.NamedError("reason", ctx.Err()))

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}
