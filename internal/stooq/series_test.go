package stooq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const dailyCSV = `Date,Open,High,Low,Close,Volume
2024-01-12,185.59,186.74,185.19,185.92,40477782
2024-01-15,186.06,186.74,183.62,183.63,65076641
not-a-date,1,2,3,4,5
2024-01-16,182.16,184.26,180.93,183.86,47317436
`

func window(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start, _ := time.Parse("2006-01-02", "2024-01-01")
	end, _ := time.Parse("2006-01-02", "2024-01-31")
	return start, end
}

func TestClient_DailyBars(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(dailyCSV))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	start, end := window(t)

	bars, err := c.DailyBars(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("DailyBars failed: %v", err)
	}

	// The junk row is skipped.
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}
	if bars[0].Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", bars[0].Ticker)
	}
	if bars[0].Date != "2024-01-12" {
		t.Errorf("Date = %q, want 2024-01-12", bars[0].Date)
	}
	if bars[0].Close != 185.92 {
		t.Errorf("Close = %v, want 185.92", bars[0].Close)
	}
	if bars[0].Volume != 40477782 {
		t.Errorf("Volume = %d, want 40477782", bars[0].Volume)
	}

	query := gotQuery.Load().(string)
	for _, want := range []string{"s=aapl.us", "i=d", "d1=20240101", "d2=20240131"} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q missing %q", query, want)
		}
	}
}

func TestClient_DailyBars_NoData(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("No data"))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(3, time.Millisecond))
	start, end := window(t)

	_, err := c.DailyBars(context.Background(), "ZZZZ", start, end)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("error = %v, want ErrNoData", err)
	}

	// Permanent errors are not retried.
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClient_DailyBars_TransientThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte("<html><body>Too many requests</body></html>"))
			return
		}
		w.Write([]byte(dailyCSV))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(3, time.Millisecond))
	start, end := window(t)

	bars, err := c.DailyBars(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("DailyBars failed: %v", err)
	}
	if len(bars) != 3 {
		t.Errorf("got %d bars, want 3", len(bars))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClient_DailyBars_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(2, time.Millisecond))
	start, end := window(t)

	_, err := c.DailyBars(context.Background(), "AAPL", start, end)
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if calls.Load() != 3 { // initial attempt + 2 retries
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClient_DailyBars_EmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Date,Open,High,Low,Close,Volume\n"))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	start, end := window(t)

	if _, err := c.DailyBars(context.Background(), "AAPL", start, end); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestToStooqSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AAPL", "aapl.us"},
		{"BRK-B", "brk-b.us"},
		{" SPY ", "spy.us"},
	}

	for _, tt := range tests {
		if got := ToStooqSymbol(tt.in); got != tt.want {
			t.Errorf("ToStooqSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
