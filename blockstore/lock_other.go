//go:build !unix

package blockstore

// lockExclusive is a no-op on platforms without flock semantics: a
// documented gap rather than a faked lock.
func lockExclusive(path string, readOnly bool) (unlock func() error, err error) {
	return func() error { return nil }, nil
}
