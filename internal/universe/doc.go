// Package universe builds the set of tracked symbols for one run.
//
// The universe is rebuilt from scratch every run: the current S&P 500
// constituents are downloaded from the reference CSV, symbols are
// normalized, and the configured ETF extension is appended. Order is
// stable (first occurrence wins) so repeated runs see the same sequence.
//
// The constituent source is the single fatal dependency of a run: if it
// cannot be fetched or parsed, the run aborts with ErrSourceUnavailable.
package universe
