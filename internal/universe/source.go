package universe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrSourceUnavailable indicates the constituent reference could not be
// retrieved or understood. It is fatal: the run aborts without publishing.
var ErrSourceUnavailable = errors.New("constituent source unavailable")

// Source fetches the S&P 500 constituent list and extends it with a
// fixed set of ETFs.
type Source struct {
	url        string
	extraETFs  []string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// NewSource creates a constituent list source.
func NewSource(url string, extraETFs []string, opts ...SourceOption) *Source {
	s := &Source{
		url:       url,
		extraETFs: extraETFs,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) SourceOption {
	return func(s *Source) {
		s.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header for the constituents request.
func WithUserAgent(ua string) SourceOption {
	return func(s *Source) {
		s.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *Source) {
		s.logger = logger
	}
}

// Fetch downloads the constituent CSV and returns the normalized symbol
// list with the ETF extension appended. The result is de-duplicated with
// stable order.
func (s *Source) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrSourceUnavailable, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	symbols, err := parseConstituents(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	tickers := dedupe(append(symbols, s.extraETFs...))

	s.logger.Debug("universe assembled",
		"constituents", len(symbols),
		"etfs", len(s.extraETFs),
		"total", len(tickers),
	)

	return tickers, nil
}

// parseConstituents extracts and normalizes the Symbol column.
func parseConstituents(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %v", err)
	}

	symbolCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "Symbol") {
			symbolCol = i
			break
		}
	}
	if symbolCol < 0 {
		return nil, errors.New("csv has no Symbol column")
	}

	var symbols []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %v", err)
		}
		if symbolCol >= len(record) {
			continue
		}
		sym := NormalizeSymbol(record[symbolCol])
		if sym == "" {
			continue
		}
		symbols = append(symbols, sym)
	}

	if len(symbols) == 0 {
		return nil, errors.New("constituent csv contained no symbols")
	}

	return symbols, nil
}

// NormalizeSymbol canonicalizes an index symbol: whitespace is trimmed and
// dots become dashes (BRK.B -> BRK-B, the form the provider understands).
func NormalizeSymbol(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ".", "-")
}

// dedupe removes duplicates preserving first occurrence.
func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
