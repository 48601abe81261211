package job

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/sp500-data/internal/model"
)

// fetchAll retrieves every symbol's series with bounded concurrency and
// paced requests. Per-symbol failures are collected, not propagated; the
// returned error is non-nil only when the context is canceled.
func (r *Runner) fetchAll(ctx context.Context, tickers []string, start, end time.Time) ([]model.PriceBar, []model.FetchFailure, error) {
	spacing := r.cfg.RequestSpacing
	if spacing <= 0 {
		spacing = time.Millisecond
	}
	pace := time.NewTicker(spacing)
	defer pace.Stop()

	var (
		mu       sync.Mutex
		bars     []model.PriceBar
		failures []model.FetchFailure
		done     atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.cfg.Concurrency, 1))

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			// Global pacing across all workers.
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-pace.C:
			}

			series, err := r.provider.DailyBars(gctx, ticker, start, end)
			switch {
			case gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				r.logger.Warn("failed to fetch series",
					"ticker", ticker,
					"error", err,
				)
				mu.Lock()
				failures = append(failures, model.FetchFailure{
					Ticker: ticker,
					Reason: err.Error(),
				})
				mu.Unlock()
			default:
				mu.Lock()
				bars = append(bars, series...)
				mu.Unlock()
			}

			if n := done.Add(1); r.cfg.ProgressEvery > 0 && n%int64(r.cfg.ProgressEvery) == 0 {
				r.logger.Info("fetch progress",
					"done", n,
					"total", len(tickers),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Deterministic failure order for the failures CSV.
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Ticker < failures[j].Ticker
	})

	return bars, failures, nil
}
