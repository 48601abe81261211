package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/sp500-data/internal/dataset"
	"github.com/rickgao/sp500-data/internal/model"
	"github.com/rickgao/sp500-data/internal/publish"
	"github.com/rickgao/sp500-data/internal/writer"
)

// ErrNoDataFetched indicates every symbol failed: publishing an empty
// table would blank the artifact, so the run aborts instead.
var ErrNoDataFetched = errors.New("no data fetched from provider")

// UniverseSource provides the tracked symbol list for a run.
type UniverseSource interface {
	Fetch(ctx context.Context) ([]string, error)
}

// SeriesProvider fetches one symbol's daily series.
type SeriesProvider interface {
	DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error)
}

// Mirror optionally replicates the merged dataset (e.g. to Postgres).
type Mirror interface {
	WriteBars(ctx context.Context, runID string, bars []model.PriceBar) (writer.Metrics, error)
}

// Config holds runner settings.
type Config struct {
	LookbackYears  int           // Historical window: Jan 1 of (year - N) through today
	Concurrency    int           // Max in-flight series fetches
	RequestSpacing time.Duration // Minimum gap between consecutive requests
	ProgressEvery  int           // Log a progress line after this many symbols
	LockDir        string        // Directory holding the run lock file
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LookbackYears:  4,
		Concurrency:    4,
		RequestSpacing: 250 * time.Millisecond,
		ProgressEvery:  25,
	}
}

// Report summarizes one completed run.
type Report struct {
	Meta       model.RunMeta
	Failures   []model.FetchFailure
	Duplicates int
	Changed    bool
}

// Runner executes the refresh-and-publish pipeline.
type Runner struct {
	cfg      Config
	universe UniverseSource
	provider SeriesProvider
	store    publish.Store
	mirror   Mirror
	logger   *slog.Logger
	now      func() time.Time
	loc      *time.Location
}

// Option configures a Runner.
type Option func(*Runner)

// WithMirror sets an optional dataset mirror.
func WithMirror(m Mirror) Option {
	return func(r *Runner) {
		r.mirror = m
	}
}

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a Runner.
func New(cfg Config, universe UniverseSource, provider SeriesProvider, store publish.Store, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	r := &Runner{
		cfg:      cfg,
		universe: universe,
		provider: provider,
		store:    store,
		logger:   logger,
		now:      time.Now,
		loc:      loc,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes one refresh. Fatal errors leave the published artifact
// untouched; per-symbol failures are recorded in the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()

	release, err := acquireLock(r.cfg.LockDir)
	if err != nil {
		return nil, err
	}
	defer release()

	tickers, err := r.universe.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}

	winStart, winEnd := fetchWindow(r.now().In(r.loc), r.cfg.LookbackYears)

	r.logger.Info("starting refresh",
		"tickers", len(tickers),
		"start", winStart.Format(model.DateLayout),
		"end", winEnd.Format(model.DateLayout),
	)

	bars, failures, err := r.fetchAll(ctx, tickers, winStart, winEnd)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNoDataFetched
	}

	table := dataset.FromBars(bars)
	if table.Duplicates() > 0 {
		r.logger.Warn("dropped duplicate rows during merge",
			"duplicates", table.Duplicates(),
		)
	}

	meta := model.RunMeta{
		RunID:            uuid.NewString(),
		GeneratedAtET:    r.now().In(r.loc).Format(time.RFC3339),
		LookbackYears:    r.cfg.LookbackYears,
		Start:            winStart.Format(model.DateLayout),
		End:              winEnd.Format(model.DateLayout),
		TickersRequested: len(tickers),
		TickersOK:        len(table.Tickers()),
		Failures:         len(failures),
		MaxDate:          table.MaxDate(),
	}

	changed, err := r.store.Save(ctx, table, meta, failures)
	if err != nil {
		return nil, fmt.Errorf("publish artifact: %w", err)
	}

	if r.mirror != nil {
		// The artifact is already published; a mirror failure is logged,
		// not fatal.
		if _, err := r.mirror.WriteBars(ctx, meta.RunID, table.Bars()); err != nil {
			r.logger.Error("mirror write failed", "error", err)
		}
	}

	r.logger.Info("refresh complete",
		"run_id", meta.RunID,
		"rows", table.Len(),
		"tickers_ok", meta.TickersOK,
		"failures", len(failures),
		"max_date", meta.MaxDate,
		"changed", changed,
		"duration", time.Since(started),
	)

	return &Report{
		Meta:       meta,
		Failures:   failures,
		Duplicates: table.Duplicates(),
		Changed:    changed,
	}, nil
}

// fetchWindow computes the inclusive [start, end] window: today back to
// January 1 of (year - lookback).
func fetchWindow(now time.Time, lookbackYears int) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(now.Year()-lookbackYears, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}
