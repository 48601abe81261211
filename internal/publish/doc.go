// Package publish owns the artifact replace-and-converge contract.
//
// A Store exposes the published dataset as load/save over full tables;
// the job never mutates published state in place, it recomputes and
// replaces. Save is idempotent at the value level: saving a table equal
// to the currently published one touches nothing and reports no change.
//
// DirStore publishes to a directory. GitPublisher wraps a store and, when
// a save changed state, commits and force-pushes the artifact directory
// so a concurrently advanced remote is resolved last-writer-wins.
package publish
