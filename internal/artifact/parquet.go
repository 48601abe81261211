package artifact

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/rickgao/sp500-data/internal/model"
)

// WriteParquet writes the bar slice as a parquet file. The schema is
// derived from the PriceBar field tags and is identical across runs.
func WriteParquet(path string, bars []model.PriceBar) error {
	return writeAtomic(path, func(f *os.File) error {
		if err := parquet.Write(f, bars); err != nil {
			return fmt.Errorf("write parquet: %w", err)
		}
		return nil
	})
}

// ReadParquet loads all bars from a parquet file. A missing file returns
// os.ErrNotExist via the underlying open.
func ReadParquet(path string) ([]model.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet: %w", err)
	}

	bars, err := parquet.Read[model.PriceBar](f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}

	return bars, nil
}
