package artifact

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rickgao/sp500-data/internal/model"
)

// WriteFailures writes the per-symbol failure list as a two-column CSV.
// The file is written even when empty so a clean run replaces the
// previous run's failure list.
func WriteFailures(path string, failures []model.FetchFailure) error {
	return writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)

		if err := w.Write([]string{"ticker", "error"}); err != nil {
			return fmt.Errorf("write failures header: %w", err)
		}
		for _, fail := range failures {
			if err := w.Write([]string{fail.Ticker, fail.Reason}); err != nil {
				return fmt.Errorf("write failure row: %w", err)
			}
		}

		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flush failures csv: %w", err)
		}
		return nil
	})
}
