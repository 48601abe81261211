// Package dataset holds the merged bar table for one run.
//
// The table is keyed by (ticker, date); inserting a duplicate key is
// counted and dropped, so the invariant "no duplicate rows per key" holds
// by construction. Iteration order is deterministic (ticker, then date)
// so serialized artifacts are stable across runs with identical input.
package dataset
