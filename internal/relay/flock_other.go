//go:build !unix

package relay

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// acquireLock falls back to an exclusive-create lock file where flock is
// unavailable. A stale file left by a crashed server blocks restarts until
// removed.
func acquireLock(path string) (func() error, error) {
	lockFile, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("lock file %s held by another server", path)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}

	fmt.Fprintf(lockFile, "%d\n", os.Getpid())
	if err := lockFile.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing lock file: %w", err)
	}

	return func() error {
		return os.Remove(path)
	}, nil
}
