package stooq

import (
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://stooq.com")

		if c.baseURL != "https://stooq.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://stooq.com")
		}
		if c.httpClient.Timeout != 20*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 20*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.retryBackoff != 250*time.Millisecond {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 250*time.Millisecond)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://stooq.com", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with retries option", func(t *testing.T) {
		c := NewClient("https://stooq.com", WithRetries(5, 2*time.Second))
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
	})

	t.Run("with user agent option", func(t *testing.T) {
		c := NewClient("https://stooq.com", WithUserAgent("test-agent/1.0"))
		if c.userAgent != "test-agent/1.0" {
			t.Errorf("userAgent = %q, want %q", c.userAgent, "test-agent/1.0")
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://stooq.com", WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://stooq.com", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

func TestAPIError_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want bool
	}{
		{"rate limited", &APIError{StatusCode: 429, Message: "Too Many Requests"}, true},
		{"server error", &APIError{StatusCode: 500, Message: "Internal Server Error"}, true},
		{"bad gateway", &APIError{StatusCode: 502, Message: "Bad Gateway"}, true},
		{"non-csv 200", &APIError{StatusCode: 200, Message: msgNonCSV}, true},
		{"not found", &APIError{StatusCode: 404, Message: "Not Found"}, false},
		{"forbidden", &APIError{StatusCode: 403, Message: "Forbidden"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
