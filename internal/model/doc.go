// Package model defines shared data types used across the refresh job.
//
// Conventions:
//   - Dates: "YYYY-MM-DD" strings (the provider's native daily granularity)
//   - Prices: float64 dollars, as delivered by the provider
//   - IDs: string for tickers, uuid strings for run IDs
//
// PriceBar carries parquet field tags; the published artifact schema is
// exactly the set of tagged fields, in declaration order.
package model
