package writer

import (
	"testing"
	"time"

	"github.com/rickgao/sp500-data/internal/model"
)

func TestTransform(t *testing.T) {
	bar := model.PriceBar{
		Ticker: "AAPL",
		Date:   "2024-01-15",
		Open:   186.06,
		High:   186.74,
		Low:    183.62,
		Close:  183.63,
		Volume: 65076641,
	}

	row, ok := transform(bar, "run-123")
	if !ok {
		t.Fatal("transform rejected a valid bar")
	}

	if row.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", row.Ticker)
	}
	wantDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !row.Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", row.Date, wantDate)
	}
	if row.Close != 183.63 {
		t.Errorf("Close = %v, want 183.63", row.Close)
	}
	if row.Volume != 65076641 {
		t.Errorf("Volume = %d, want 65076641", row.Volume)
	}
	if row.RunID != "run-123" {
		t.Errorf("RunID = %q, want run-123", row.RunID)
	}
}

func TestTransform_BadDate(t *testing.T) {
	bar := model.PriceBar{Ticker: "AAPL", Date: "01/15/2024"}

	if _, ok := transform(bar, "run-123"); ok {
		t.Error("transform should reject an unparseable date")
	}
}

func TestNewBarWriter_Defaults(t *testing.T) {
	w := NewBarWriter(nil, 0, nil)

	if w.batchSize != 1000 {
		t.Errorf("batchSize = %d, want 1000", w.batchSize)
	}
	if w.logger == nil {
		t.Error("logger should not be nil")
	}
}
