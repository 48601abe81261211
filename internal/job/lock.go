package job

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrRunInProgress indicates another run holds the lock file.
var ErrRunInProgress = errors.New("another refresh run is in progress")

const lockFileName = ".refresh.lock"

// acquireLock takes the exclusive run lock for the artifact directory.
// The returned release func removes the lock.
func acquireLock(dir string) (release func(), err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	path := filepath.Join(dir, lockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: lock file %s exists", ErrRunInProgress, path)
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() { os.Remove(path) }, nil
}
