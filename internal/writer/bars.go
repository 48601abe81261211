package writer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/sp500-data/internal/model"
)

// Metrics holds counters for one mirror write.
type Metrics struct {
	Upserts  int64
	Batches  int64
	BadRows  int64
	Duration time.Duration
}

// barRow is a row bound for the daily_bars table.
type barRow struct {
	Ticker string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	RunID  string
}

// BarWriter upserts price bars into the daily_bars table in batches.
type BarWriter struct {
	db        *pgxpool.Pool
	batchSize int
	logger    *slog.Logger
}

// NewBarWriter creates a writer over an existing pool.
func NewBarWriter(db *pgxpool.Pool, batchSize int, logger *slog.Logger) *BarWriter {
	if batchSize < 1 {
		batchSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BarWriter{
		db:        db,
		batchSize: batchSize,
		logger:    logger,
	}
}

// WriteBars upserts all bars, tagged with the run ID. Rows whose date
// fails to parse are counted and skipped.
func (w *BarWriter) WriteBars(ctx context.Context, runID string, bars []model.PriceBar) (Metrics, error) {
	start := time.Now()
	var m Metrics

	rows := make([]barRow, 0, len(bars))
	for _, bar := range bars {
		row, ok := transform(bar, runID)
		if !ok {
			m.BadRows++
			continue
		}
		rows = append(rows, row)
	}

	for len(rows) > 0 {
		n := min(w.batchSize, len(rows))
		if err := w.upsertBatch(ctx, rows[:n]); err != nil {
			return m, fmt.Errorf("upsert batch: %w", err)
		}
		m.Upserts += int64(n)
		m.Batches++
		rows = rows[n:]
	}

	m.Duration = time.Since(start)

	w.logger.Info("dataset mirrored",
		"upserts", m.Upserts,
		"batches", m.Batches,
		"bad_rows", m.BadRows,
		"duration", m.Duration,
	)

	return m, nil
}

// transform converts a PriceBar to a barRow.
func transform(bar model.PriceBar, runID string) (barRow, bool) {
	date, err := time.Parse(model.DateLayout, bar.Date)
	if err != nil {
		return barRow{}, false
	}
	return barRow{
		Ticker: bar.Ticker,
		Date:   date,
		Open:   bar.Open,
		High:   bar.High,
		Low:    bar.Low,
		Close:  bar.Close,
		Volume: bar.Volume,
		RunID:  runID,
	}, true
}

// upsertBatch writes rows using pgx.Batch with ON CONFLICT DO UPDATE.
func (w *BarWriter) upsertBatch(ctx context.Context, rows []barRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO daily_bars (ticker, date, open, high, low, close, volume, run_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (ticker, date) DO UPDATE SET
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close,
				volume = EXCLUDED.volume,
				run_id = EXCLUDED.run_id
		`, r.Ticker, r.Date, r.Open, r.High, r.Low, r.Close, r.Volume, r.RunID)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}
