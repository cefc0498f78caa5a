//go:build unix

package blockstore

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive takes a non-blocking advisory flock on path, guarding
// against a second process mounting the same volume concurrently.
// Read-only opens take a shared lock instead, since multiple readers
// don't corrupt each other's view of the bitmap.
func lockExclusive(path string, readOnly bool) (unlock func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s for locking: %w", path, err)
	}

	how := unix.LOCK_EX | unix.LOCK_NB
	if readOnly {
		how = unix.LOCK_SH | unix.LOCK_NB
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return func() error {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		return f.Close()
	}, nil
}
