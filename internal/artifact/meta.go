package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rickgao/sp500-data/internal/model"
)

// WriteMeta writes the run metadata sidecar as indented JSON.
func WriteMeta(path string, meta model.RunMeta) error {
	return writeAtomic(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encode meta: %w", err)
		}
		return nil
	})
}

// ReadMeta loads the run metadata sidecar.
func ReadMeta(path string) (model.RunMeta, error) {
	var meta model.RunMeta

	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("decode meta: %w", err)
	}

	return meta, nil
}
