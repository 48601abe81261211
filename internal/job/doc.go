// Package job implements the refresh-and-publish pipeline.
//
// One run is a linear sequence: fetch the symbol universe, fetch each
// symbol's daily series (bounded concurrency, paced requests), merge into
// a single table keyed by (ticker, date), and save through the publish
// store. A universe failure or a fully empty fetch aborts the run before
// anything is written; a single symbol's failure is recorded and skipped.
//
// Runs are serialized through a lock file in the artifact directory, so
// an overlapping manual trigger fails fast instead of racing the publish
// step.
package job
