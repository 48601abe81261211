// Package database provides the connection pool for the optional
// Postgres mirror of the published dataset.
//
// The mirror is a convenience for SQL consumers; the file artifact
// remains the authoritative output of a run.
package database
