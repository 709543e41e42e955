// Package lockfile implements an advisory single-writer lock backed by an
// O_EXCL lock file.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	apperrors "blazectl/internal/platform/errors"
)

// DefaultStaleAfter is how old a lock file may get before it is considered
// abandoned by a crashed process.
const DefaultStaleAfter = 5 * time.Minute

// Acquire creates the lock file at path. It returns ErrLocked when another
// live holder exists. The returned release func removes the lock.
func Acquire(path string, staleAfter time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w: %w", apperrors.ErrIO, err)
	}
	if info, err := os.Stat(path); err == nil {
		if time.Since(info.ModTime()) > staleAfter {
			_ = os.Remove(path)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, apperrors.ErrLocked
		}
		return nil, fmt.Errorf("create lock: %w: %w", apperrors.ErrIO, err)
	}
	_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
	_ = f.Close()

	return func() { _ = os.Remove(path) }, nil
}
