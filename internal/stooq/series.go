package stooq

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/sp500-data/internal/model"
)

// dailyPath is the Stooq per-symbol daily CSV endpoint.
const dailyPath = "/q/d/l/"

// ToStooqSymbol maps a US index symbol to Stooq's form ("AAPL" -> "aapl.us").
func ToStooqSymbol(ticker string) string {
	return strings.ToLower(strings.TrimSpace(ticker)) + ".us"
}

// DailyBars fetches the daily OHLCV series for one symbol over the
// inclusive [start, end] window.
func (c *Client) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error) {
	query := url.Values{}
	query.Set("s", ToStooqSymbol(ticker))
	query.Set("i", "d")
	query.Set("d1", start.Format("20060102"))
	query.Set("d2", end.Format("20060102"))

	body, err := c.getCSV(ctx, dailyPath, query)
	if err != nil {
		return nil, fmt.Errorf("daily bars %s: %w", ticker, err)
	}

	bars, err := parseDailyCSV(ticker, body)
	if err != nil {
		return nil, fmt.Errorf("daily bars %s: %w", ticker, err)
	}

	return bars, nil
}

// parseDailyCSV decodes a Date,Open,High,Low,Close,Volume body into bars.
// Rows with unparseable dates or closes are skipped; an empty result is an
// error so callers never mistake a junk payload for a valid series.
func parseDailyCSV(ticker string, body []byte) ([]model.PriceBar, error) {
	cr := csv.NewReader(bytes.NewReader(body))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	dateCol, ok := cols["date"]
	if !ok {
		return nil, errors.New("csv has no Date column")
	}
	closeCol, ok := cols["close"]
	if !ok {
		return nil, errors.New("csv has no Close column")
	}

	var bars []model.PriceBar
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %v", err)
		}

		date, err := time.Parse(model.DateLayout, field(record, dateCol))
		if err != nil {
			continue
		}
		closePx, err := strconv.ParseFloat(field(record, closeCol), 64)
		if err != nil {
			continue
		}

		bars = append(bars, model.PriceBar{
			Ticker: ticker,
			Date:   date.Format(model.DateLayout),
			Open:   floatField(record, cols, "open"),
			High:   floatField(record, cols, "high"),
			Low:    floatField(record, cols, "low"),
			Close:  closePx,
			Volume: intField(record, cols, "volume"),
		})
	}

	if len(bars) == 0 {
		return nil, errors.New("empty series")
	}

	return bars, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func floatField(record []string, cols map[string]int, name string) float64 {
	i, ok := cols[name]
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(field(record, i), 64)
	if err != nil {
		return 0
	}
	return f
}

func intField(record []string, cols map[string]int, name string) int64 {
	i, ok := cols[name]
	if !ok {
		return 0
	}
	// Volume occasionally arrives with a fractional part; parse as float
	// and truncate.
	f, err := strconv.ParseFloat(field(record, i), 64)
	if err != nil {
		return 0
	}
	return int64(f)
}
