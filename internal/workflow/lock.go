package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/anirudh-chai/subtitles-transliterator/internal/library"
)

const lockFileName = ".translit.lock"

// AcquireLock takes the advisory run lock kept inside the processed
// directory so two runs never write the same library at once. The caller
// must Unlock the returned lock when the run ends.
func AcquireLock(baseDir string) (*flock.Flock, error) {
	dir := filepath.Join(baseDir, library.ProcessedDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create processed directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is already active (lock held at %s)", lock.Path())
	}
	return lock, nil
}
