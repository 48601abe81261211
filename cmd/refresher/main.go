package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting refresher",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"output_dir", cfg.Output.Dir,
		"git_publish", cfg.Publish.Git,
		"database_mirror", cfg.Database.Enabled,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
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

	report, err := runner.Run(ctx)
	if err != nil {
		logger.Error("refresh failed", "error", err)
		os.Exit(1)
	}

	if !report.Changed {
		logger.Info("no new data, nothing to publish")
	}
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
		logger.Info("connecting to mirror database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)

		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		cleanup = pool.Close

		opts = append(opts, job.WithMirror(writer.NewBarWriter(pool, cfg.Database.BatchSize, logger)))
	}

	return job.New(jobCfg, source, provider, store, logger, opts...), cleanup, nil
}
