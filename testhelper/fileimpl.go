// Package testhelper provides an in-memory backend.Storage fake so
// blockstore tests can drive allocate/release/read/write and bitmap
// flush/load cycles without touching the host filesystem.
package testhelper

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/blockfs/f16fs/backend"
)

// MemStorage is a backend.Storage backed by a plain byte slice. Sys()
// always fails with backend.ErrNotSuitable, since there is no real
// file descriptor behind it for ioctl-style calls; Writable() hands
// back the same value, since reads and writes share one buffer.
type MemStorage struct {
	buf      []byte
	readOnly bool
	pos      int64
	closed   bool
}

// NewMemStorage allocates a fake backing store of size bytes, all
// zero, as Create would produce on a real device.
func NewMemStorage(size int64, readOnly bool) *MemStorage {
	return &MemStorage{buf: make([]byte, size), readOnly: readOnly}
}

var (
	_ backend.Storage      = (*MemStorage)(nil)
	_ backend.WritableFile = (*MemStorage)(nil)
)

func (m *MemStorage) Sys() (*os.File, error) {
	return nil, backend.ErrNotSuitable
}

func (m *MemStorage) Writable() (backend.WritableFile, error) {
	if m.readOnly {
		return nil, backend.ErrIncorrectOpenMode
	}
	return m, nil
}

func (m *MemStorage) Stat() (fs.FileInfo, error) {
	return memFileInfo{size: int64(len(m.buf))}, nil
}

func (m *MemStorage) Read(b []byte) (int, error) {
	n, err := m.ReadAt(b, m.pos)
	m.pos += int64(n)
	return n, err
}

func (m *MemStorage) ReadAt(b []byte, off int64) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("testhelper: read from closed storage")
	}
	if off < 0 || off > int64(len(m.buf)) {
		return 0, fmt.Errorf("testhelper: read offset %d out of range", off)
	}
	n := copy(b, m.buf[off:])
	return n, nil
}

func (m *MemStorage) WriteAt(b []byte, off int64) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("testhelper: write to closed storage")
	}
	if m.readOnly {
		return 0, backend.ErrIncorrectOpenMode
	}
	if off < 0 || off+int64(len(b)) > int64(len(m.buf)) {
		return 0, fmt.Errorf("testhelper: write range [%d,%d) out of range", off, off+int64(len(b)))
	}
	return copy(m.buf[off:], b), nil
}

func (m *MemStorage) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case 0:
		base = 0
	case 1:
		base = m.pos
	case 2:
		base = int64(len(m.buf))
	default:
		return 0, fmt.Errorf("testhelper: invalid whence %d", whence)
	}
	m.pos = base + offset
	return m.pos, nil
}

func (m *MemStorage) Close() error {
	m.closed = true
	return nil
}

type memFileInfo struct {
	size int64
}

func (i memFileInfo) Name() string       { return "" }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) Mode() fs.FileMode  { return 0o600 }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return false }
func (i memFileInfo) Sys() any           { return nil }
