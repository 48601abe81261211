// Package stooq implements the daily-bar client for the Stooq CSV API.
//
// Stooq serves one CSV per symbol and date range:
//
//	GET /q/d/l/?s=aapl.us&i=d&d1=20220101&d2=20260106
//	Date,Open,High,Low,Close,Volume
//
// Responses are classified before parsing. A body starting with "No data"
// is permanent (ErrNoData) and is not retried. Rate-limit pages, HTML
// error pages and any other non-CSV body are transient and retried with
// exponential backoff and jitter.
package stooq
