// Command scheduler runs the refresh job on a fixed weekday schedule,
// for deployments without an external trigger. Overlapping triggers are
// rejected by the job's run lock.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rickgao/sp500-data/internal/config"
	"github.com/rickgao/sp500-data/internal/database"
	"github.com/rickgao/sp500-data/internal/job"
	"github.com/rickgao/sp500-data/internal/publish"
	"github.com/rickgao/sp500-data/internal/stooq"
	"github.com/rickgao/sp500-data/internal/universe"
	"github.com/rickgao/sp500-data/internal/version"
	"github.com/rickgao/sp500-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/refresher.yaml", "path to config file")
	runNow := flag.Bool("run-now", false, "run one refresh immediately on startup")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting scheduler",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Error("invalid scheduler timezone", "timezone", cfg.Scheduler.Timezone, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	runner, cleanup, err := buildRunner(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build runner", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	runOnce := func() {
		report, err := runner.Run(ctx)
		switch {
		case errors.Is(err, job.ErrRunInProgress):
			logger.Warn("refresh already running, skipping trigger")
		case err != nil:
			logger.Error("refresh failed", "error", err)
		case !report.Changed:
			logger.Info("no new data, nothing to publish")
		}
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Scheduler.Cron, runOnce); err != nil {
		logger.Error("invalid cron spec", "cron", cfg.Scheduler.Cron, "error", err)
		os.Exit(1)
	}

	if *runNow {
		runOnce()
	}

	c.Start()
	logger.Info("scheduler started",
		"cron", cfg.Scheduler.Cron,
		"timezone", cfg.Scheduler.Timezone,
	)

	<-ctx.Done()

	// Let an in-flight run finish before exiting.
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped")
}

// buildRunner wires the pipeline from config.
func buildRunner(ctx context.Context, cfg *config.JobConfig, logger *slog.Logger) (*job.Runner, func(), error) {
	source := universe.NewSource(
		cfg.Universe.ConstituentsURL,
		cfg.Universe.ExtraETFs,
		universe.WithUserAgent(cfg.Provider.UserAgent),
		universe.WithLogger(logger),
	)

	provider := stooq.NewClient(
		cfg.Provider.BaseURL,
		stooq.WithTimeout(cfg.Provider.Timeout),
		stooq.WithRetries(cfg.Provider.MaxRetries, cfg.Provider.RetryBackoff),
		stooq.WithUserAgent(cfg.Provider.UserAgent),
		stooq.WithLogger(logger),
	)

	files := publish.Files{
		Parquet:  cfg.Output.ParquetFile,
		Snapshot: cfg.Output.SnapshotFile,
		Meta:     cfg.Output.MetaFile,
		Failures: cfg.Output.FailuresFile,
	}

	var store publish.Store = publish.NewDirStore(cfg.Output.Dir, files, logger)
	if cfg.Publish.Git {
		store = publish.NewGitPublisher(store, cfg.Output.Dir, cfg.Publish.Remote, cfg.Publish.Branch, logger)
	}

	jobCfg := job.Config{
		LookbackYears:  cfg.Universe.LookbackYears,
		Concurrency:    cfg.Provider.Concurrency,
		RequestSpacing: cfg.Provider.RequestSpacing,
		ProgressEvery:  cfg.Provider.ProgressEvery,
		LockDir:        cfg.Output.Dir,
	}

	cleanup := func() {}
	var opts []job.Option

	if cfg.Database.Enabled {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		cleanup = pool.Close

		opts = append(opts, job.WithMirror(writer.NewBarWriter(pool, cfg.Database.BatchSize, logger)))
	}

	return job.New(jobCfg, source, provider, store, logger, opts...), cleanup, nil
}
