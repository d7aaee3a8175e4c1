package library

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"absubmit/internal/services"
)

// ErrLocked reports that another run holds the catalog lock.
var ErrLocked = errors.New("library is locked by another run")

// LockPath returns the lock file guarding dbPath.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// AcquireRunLock takes a non-blocking exclusive lock next to the database,
// creating the database directory if needed. Callers release it with Unlock.
func AcquireRunLock(dbPath string) (*flock.Flock, error) {
	path := LockPath(dbPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "library", "lock", "create lock directory", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "library", "lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "library", "lock", path, ErrLocked)
	}
	return lock, nil
}
