package f16fs

import "errors"

// Sentinel errors. None of them carry call-specific detail themselves;
// callers that need positional context wrap them with fmt.Errorf("...: %w", ErrX).
var (
	// ErrInvalidArgument covers null/empty input, malformed or oversized
	// paths, a bad seek whence, or an out-of-range file descriptor.
	ErrInvalidArgument = errors.New("f16fs: invalid argument")

	// ErrNotFound covers a missing path component or a descriptor that
	// is not currently in use.
	ErrNotFound = errors.New("f16fs: not found")

	// ErrWrongKind covers opening a directory, traversing through a
	// file, or listing a regular file.
	ErrWrongKind = errors.New("f16fs: wrong kind")

	// ErrExhausted covers no free inode, a full directory (7 entries),
	// or the block store running out of blocks.
	ErrExhausted = errors.New("f16fs: exhausted")

	// ErrNameConflict covers create/move onto an existing name.
	ErrNameConflict = errors.New("f16fs: name conflict")

	// ErrNotEmpty covers removing a directory that still has entries.
	ErrNotEmpty = errors.New("f16fs: not empty")

	// ErrClosed covers any call on an FS handle after Unmount has
	// already run against it.
	ErrClosed = errors.New("f16fs: closed")

	// ErrNotMounted covers any call on a nil FS handle.
	ErrNotMounted = errors.New("f16fs: not mounted")

	// ErrNotImplemented marks a declared but intentionally unimplemented
	// operation: hard-linking is named in the on-disk design but never
	// built out.
	ErrNotImplemented = errors.New("f16fs: not implemented")
)
