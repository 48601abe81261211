package dataset

import (
	"sort"

	"github.com/rickgao/sp500-data/internal/model"
)

// Table is a merged set of price bars keyed by (ticker, date).
type Table struct {
	bars map[model.BarKey]model.PriceBar
	dups int
}

// New creates an empty table.
func New() *Table {
	return &Table{
		bars: make(map[model.BarKey]model.PriceBar),
	}
}

// FromBars builds a table from a bar slice, dropping duplicate keys
// (first occurrence wins).
func FromBars(bars []model.PriceBar) *Table {
	t := New()
	for _, b := range bars {
		t.Insert(b)
	}
	return t
}

// Insert adds a bar. It returns false if a bar with the same
// (ticker, date) key is already present; the existing bar is kept.
func (t *Table) Insert(bar model.PriceBar) bool {
	key := bar.Key()
	if _, exists := t.bars[key]; exists {
		t.dups++
		return false
	}
	t.bars[key] = bar
	return true
}

// Len returns the number of bars in the table.
func (t *Table) Len() int {
	return len(t.bars)
}

// Duplicates returns how many inserts were dropped as duplicate keys.
func (t *Table) Duplicates() int {
	return t.dups
}

// Bars returns all bars sorted by ticker, then date.
func (t *Table) Bars() []model.PriceBar {
	out := make([]model.PriceBar, 0, len(t.bars))
	for _, b := range t.bars {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// Tickers returns the distinct tickers present, sorted.
func (t *Table) Tickers() []string {
	seen := make(map[string]bool)
	for key := range t.bars {
		seen[key.Ticker] = true
	}
	out := make([]string, 0, len(seen))
	for ticker := range seen {
		out = append(out, ticker)
	}
	sort.Strings(out)
	return out
}

// MaxDate returns the newest bar date in the table, or "" if empty.
// ISO dates compare correctly as strings.
func (t *Table) MaxDate() string {
	newest := ""
	for key := range t.bars {
		if key.Date > newest {
			newest = key.Date
		}
	}
	return newest
}

// Equal reports whether two tables contain the same bars, value for value.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.bars) != len(other.bars) {
		return false
	}
	for key, bar := range t.bars {
		if other.bars[key] != bar {
			return false
		}
	}
	return true
}
