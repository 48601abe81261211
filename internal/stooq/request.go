package stooq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoData indicates Stooq has no series for the symbol. It is permanent
// and never retried.
var ErrNoData = errors.New("no data for symbol")

// APIError represents a transient failure from the Stooq endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Head       string // first bytes of the body, for diagnostics
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stooq error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	// Rate-limit and block pages come back as 200 with an HTML body;
	// those are classified transient too.
	return e.Message == msgNonCSV
}

const msgNonCSV = "non-csv response"

// doRequest performs one GET and classifies the response body.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.1")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	head := bodyHead(body)

	// Permanent: the symbol does not exist on this endpoint.
	if strings.HasPrefix(head, "no data") {
		return nil, ErrNoData
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Head:       head,
		}
	}

	// Transient: block page, HTML error page, or anything that is not the
	// expected daily CSV.
	if isHTMLish(head) || !isDailyCSV(head) {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    msgNonCSV,
			Head:       head,
		}
	}

	return body, nil
}

// getCSV performs a request with exponential backoff retry.
func (c *Client) getCSV(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}

		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// bodyHead returns a lower-cased prefix of the body for classification.
func bodyHead(body []byte) string {
	head := body
	if len(head) > 200 {
		head = head[:200]
	}
	return strings.ToLower(strings.TrimSpace(string(head)))
}

func isHTMLish(head string) bool {
	return strings.HasPrefix(head, "<!doctype") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "too many requests")
}

func isDailyCSV(head string) bool {
	return strings.HasPrefix(head, "date,") ||
		strings.Contains(head, "date,open,high,low,close")
}
