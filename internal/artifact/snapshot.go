package artifact

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/rickgao/sp500-data/internal/model"
)

// WriteSnapshot writes the bar slice as a gob snapshot for fast reload.
func WriteSnapshot(path string, bars []model.PriceBar) error {
	return writeAtomic(path, func(f *os.File) error {
		if err := gob.NewEncoder(f).Encode(bars); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		return nil
	})
}

// ReadSnapshot loads bars from a gob snapshot.
func ReadSnapshot(path string) ([]model.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var bars []model.PriceBar
	if err := gob.NewDecoder(f).Decode(&bars); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return bars, nil
}
