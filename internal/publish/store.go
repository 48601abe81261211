package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/rickgao/sp500-data/internal/artifact"
	"github.com/rickgao/sp500-data/internal/dataset"
	"github.com/rickgao/sp500-data/internal/model"
)

// Store is the narrow interface the job publishes through.
type Store interface {
	// Load returns the currently published table, or an empty table if
	// nothing has been published yet.
	Load(ctx context.Context) (*dataset.Table, error)

	// Save replaces the published artifact with the given table. It
	// returns changed=false, without writing anything, when the table
	// equals the currently published one.
	Save(ctx context.Context, table *dataset.Table, meta model.RunMeta, failures []model.FetchFailure) (changed bool, err error)
}

// Files names the artifact files within the store directory.
type Files struct {
	Parquet  string
	Snapshot string
	Meta     string
	Failures string
}

// DirStore publishes the artifact set to a local directory.
type DirStore struct {
	dir    string
	files  Files
	logger *slog.Logger
}

// NewDirStore creates a directory-backed store.
func NewDirStore(dir string, files Files, logger *slog.Logger) *DirStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirStore{
		dir:    dir,
		files:  files,
		logger: logger,
	}
}

// ParquetPath returns the full path of the published parquet file.
func (s *DirStore) ParquetPath() string {
	return filepath.Join(s.dir, s.files.Parquet)
}

// Load reads the published parquet table. A missing artifact is an empty
// table, not an error.
func (s *DirStore) Load(ctx context.Context) (*dataset.Table, error) {
	bars, err := artifact.ReadParquet(s.ParquetPath())
	if errors.Is(err, fs.ErrNotExist) {
		return dataset.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load published table: %w", err)
	}
	return dataset.FromBars(bars), nil
}

// Save writes the full artifact set, unless the table is unchanged.
func (s *DirStore) Save(ctx context.Context, table *dataset.Table, meta model.RunMeta, failures []model.FetchFailure) (bool, error) {
	current, err := s.Load(ctx)
	if err != nil {
		// A corrupt artifact should not wedge the job forever; replace it.
		s.logger.Warn("could not load published table, overwriting", "error", err)
		current = nil
	}

	if current != nil && table.Equal(current) {
		s.logger.Info("published table unchanged, skipping save",
			"rows", table.Len(),
		)
		return false, nil
	}

	bars := table.Bars()

	if err := artifact.WriteParquet(s.ParquetPath(), bars); err != nil {
		return false, fmt.Errorf("save parquet: %w", err)
	}
	if err := artifact.WriteSnapshot(filepath.Join(s.dir, s.files.Snapshot), bars); err != nil {
		return false, fmt.Errorf("save snapshot: %w", err)
	}
	if err := artifact.WriteMeta(filepath.Join(s.dir, s.files.Meta), meta); err != nil {
		return false, fmt.Errorf("save meta: %w", err)
	}
	if err := artifact.WriteFailures(filepath.Join(s.dir, s.files.Failures), failures); err != nil {
		return false, fmt.Errorf("save failures: %w", err)
	}

	s.logger.Info("artifact saved",
		"dir", s.dir,
		"rows", table.Len(),
		"tickers", len(table.Tickers()),
		"max_date", table.MaxDate(),
	)

	return true, nil
}
