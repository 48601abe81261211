package job

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rickgao/sp500-data/internal/dataset"
	"github.com/rickgao/sp500-data/internal/model"
	"github.com/rickgao/sp500-data/internal/publish"
)

// fakeUniverse returns a fixed ticker list or an error.
type fakeUniverse struct {
	tickers []string
	err     error
}

func (f *fakeUniverse) Fetch(ctx context.Context) ([]string, error) {
	return f.tickers, f.err
}

// fakeProvider serves canned series per ticker; missing tickers fail.
type fakeProvider struct {
	series map[string][]model.PriceBar
}

func (f *fakeProvider) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error) {
	bars, ok := f.series[ticker]
	if !ok {
		return nil, fmt.Errorf("daily bars %s: no data for symbol", ticker)
	}
	return bars, nil
}

// recordingStore counts Save calls without touching the filesystem.
type recordingStore struct {
	saves   int
	changed bool
}

func (s *recordingStore) Load(ctx context.Context) (*dataset.Table, error) {
	return dataset.New(), nil
}

func (s *recordingStore) Save(ctx context.Context, table *dataset.Table, meta model.RunMeta, failures []model.FetchFailure) (bool, error) {
	s.saves++
	return s.changed, nil
}

func seriesFor(ticker string, n int) []model.PriceBar {
	bars := make([]model.PriceBar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, model.PriceBar{
			Ticker: ticker,
			Date:   fmt.Sprintf("2024-01-%02d", i+2),
			Close:  100 + float64(i),
			Volume: 1000,
		})
	}
	return bars
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.RequestSpacing = time.Millisecond
	cfg.LockDir = t.TempDir()
	return cfg
}

func dirStore(t *testing.T) (*publish.DirStore, string) {
	dir := t.TempDir()
	files := publish.Files{
		Parquet:  "bars.parquet",
		Snapshot: "bars.gob",
		Meta:     "meta.json",
		Failures: "failures.csv",
	}
	return publish.NewDirStore(dir, files, nil), dir
}

func TestRunner_PartialProviderFailure(t *testing.T) {
	// AAA returns 5 rows, BBB fails: the run succeeds with 5 rows, all
	// AAA, and BBB shows up in the failure list.
	universe := &fakeUniverse{tickers: []string{"AAA", "BBB"}}
	provider := &fakeProvider{series: map[string][]model.PriceBar{
		"AAA": seriesFor("AAA", 5),
	}}
	store, _ := dirStore(t)

	r := New(testConfig(t), universe, provider, store, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	table, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Len() != 5 {
		t.Errorf("published rows = %d, want 5", table.Len())
	}
	for _, bar := range table.Bars() {
		if bar.Ticker != "AAA" {
			t.Errorf("unexpected ticker %q in published table", bar.Ticker)
		}
	}

	if len(report.Failures) != 1 || report.Failures[0].Ticker != "BBB" {
		t.Errorf("Failures = %v, want one entry for BBB", report.Failures)
	}
	if report.Meta.TickersRequested != 2 {
		t.Errorf("TickersRequested = %d, want 2", report.Meta.TickersRequested)
	}
	if report.Meta.TickersOK != 1 {
		t.Errorf("TickersOK = %d, want 1", report.Meta.TickersOK)
	}
	if !report.Changed {
		t.Error("first publish should report a change")
	}
}

func TestRunner_UniverseFailureAbortsBeforePublish(t *testing.T) {
	universe := &fakeUniverse{err: errors.New("constituent source unavailable")}
	provider := &fakeProvider{}
	store := &recordingStore{}

	r := New(testConfig(t), universe, provider, store, nil)

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error when universe fetch fails")
	}
	if store.saves != 0 {
		t.Errorf("Save called %d times, want 0", store.saves)
	}
}

func TestRunner_AllSymbolsFailAbortsBeforePublish(t *testing.T) {
	universe := &fakeUniverse{tickers: []string{"AAA", "BBB"}}
	provider := &fakeProvider{} // every fetch fails
	store := &recordingStore{}

	r := New(testConfig(t), universe, provider, store, nil)

	_, err := r.Run(context.Background())
	if !errors.Is(err, ErrNoDataFetched) {
		t.Fatalf("error = %v, want ErrNoDataFetched", err)
	}
	if store.saves != 0 {
		t.Errorf("Save called %d times, want 0", store.saves)
	}
}

func TestRunner_SecondIdenticalRunIsNoOp(t *testing.T) {
	universe := &fakeUniverse{tickers: []string{"AAA", "SPY"}}
	provider := &fakeProvider{series: map[string][]model.PriceBar{
		"AAA": seriesFor("AAA", 3),
		"SPY": seriesFor("SPY", 3),
	}}
	store, _ := dirStore(t)
	cfg := testConfig(t)

	first, err := New(cfg, universe, provider, store, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if !first.Changed {
		t.Error("first run should change state")
	}

	second, err := New(cfg, universe, provider, store, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.Changed {
		t.Error("second run with identical data should be a no-op")
	}
}

func TestRunner_DuplicateKeysMerged(t *testing.T) {
	dup := seriesFor("AAA", 3)
	universe := &fakeUniverse{tickers: []string{"AAA", "BBB"}}
	provider := &fakeProvider{series: map[string][]model.PriceBar{
		"AAA": dup,
		"BBB": dup, // provider bug: returns AAA's series again
	}}
	store, _ := dirStore(t)

	report, err := New(testConfig(t), universe, provider, store, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Duplicates != 3 {
		t.Errorf("Duplicates = %d, want 3", report.Duplicates)
	}

	table, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("published rows = %d, want 3", table.Len())
	}
}

func TestRunner_LockBlocksOverlap(t *testing.T) {
	cfg := testConfig(t)

	release, err := acquireLock(cfg.LockDir)
	if err != nil {
		t.Fatalf("acquireLock failed: %v", err)
	}
	defer release()

	universe := &fakeUniverse{tickers: []string{"AAA"}}
	provider := &fakeProvider{series: map[string][]model.PriceBar{
		"AAA": seriesFor("AAA", 1),
	}}
	store := &recordingStore{}

	_, err = New(cfg, universe, provider, store, nil).Run(context.Background())
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("error = %v, want ErrRunInProgress", err)
	}
	if store.saves != 0 {
		t.Errorf("Save called %d times, want 0", store.saves)
	}
}

func TestAcquireLock_ReleaseAllowsNextRun(t *testing.T) {
	dir := t.TempDir()

	release, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("first acquireLock failed: %v", err)
	}
	release()

	release2, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("acquireLock after release failed: %v", err)
	}
	release2()
}

func TestFetchWindow(t *testing.T) {
	now := time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC)

	start, end := fetchWindow(now, 4)

	if got := start.Format("2006-01-02"); got != "2022-01-01" {
		t.Errorf("start = %s, want 2022-01-01", got)
	}
	if got := end.Format("2006-01-02"); got != "2026-08-27" {
		t.Errorf("end = %s, want 2026-08-27", got)
	}
}
