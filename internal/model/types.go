package model

// DateLayout is the canonical date format for bar dates.
const DateLayout = "2006-01-02"

// PriceBar represents one daily OHLCV bar for a security.
type PriceBar struct {
	Ticker string  `parquet:"ticker"`
	Date   string  `parquet:"date"` // YYYY-MM-DD
	Open   float64 `parquet:"open"`
	High   float64 `parquet:"high"`
	Low    float64 `parquet:"low"`
	Close  float64 `parquet:"close"`
	Volume int64   `parquet:"volume"`
}

// BarKey is the identity of a bar within one published dataset.
type BarKey struct {
	Ticker string
	Date   string
}

// Key returns the (ticker, date) identity of the bar.
func (b PriceBar) Key() BarKey {
	return BarKey{Ticker: b.Ticker, Date: b.Date}
}

// FetchFailure records a symbol whose series could not be fetched.
type FetchFailure struct {
	Ticker string
	Reason string
}

// RunMeta describes one refresh run. It is serialized to the meta JSON
// sidecar next to the published artifact.
type RunMeta struct {
	RunID            string `json:"run_id"`
	GeneratedAtET    string `json:"generated_at_et"` // America/New_York, RFC 3339
	LookbackYears    int    `json:"lookback_years"`
	Start            string `json:"start"` // YYYY-MM-DD, inclusive
	End              string `json:"end"`   // YYYY-MM-DD, inclusive
	TickersRequested int    `json:"tickers_requested"`
	TickersOK        int    `json:"tickers_ok"`
	Failures         int    `json:"failures"`
	MaxDate          string `json:"max_date"` // newest bar date in the dataset
}
