package out

import (
	sessionout "blazectl/internal/modules/session/port/out"
	"blazectl/internal/platform/lockfile"
)

type FileLocker struct {
	path string
}

func NewFileLocker(path string) sessionout.Locker {
	return FileLocker{path: path}
}

func (l FileLocker) Acquire() (func(), error) {
	return lockfile.Acquire(l.path, lockfile.DefaultStaleAfter)
}
