// Package artifact encodes and decodes the published artifact files.
//
// One run produces four files in the artifact directory:
//   - the parquet table (authoritative dataset)
//   - a gob snapshot of the same rows (fast reload)
//   - a meta JSON sidecar describing the run
//   - a failures CSV listing symbols that could not be fetched
//
// Every write goes through a temp file in the target directory followed
// by a rename, so a crash mid-write never leaves a torn artifact.
package artifact
