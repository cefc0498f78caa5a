// Package blockstore implements the fixed-geometry block device that
// f16fs mounts itself onto: 512-byte blocks, 65536 addressable 16-bit
// ids, backed by a single file on the host filesystem. It owns the
// free-block bitmap region entirely; callers above it never see
// bitmap bytes, only block ids.
package blockstore

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/blockfs/f16fs/backend"
	"github.com/blockfs/f16fs/backend/file"
	"github.com/blockfs/f16fs/util/bitmap"
)

const (
	// BlockSize is the uniform unit of storage, in bytes.
	BlockSize = 512
	// TotalBlocks is the number of addressable 16-bit block ids.
	TotalBlocks = 1 << 16
	// bitmapBlocks is how many blocks the free-block bitmap itself
	// occupies: TotalBlocks bits = 8192 bytes = 16 blocks.
	bitmapBlocks = (TotalBlocks / 8) / BlockSize
	// DeviceSize is the total size, in bytes, of a formatted backing file.
	DeviceSize = int64(TotalBlocks) * BlockSize
)

// Store is a mounted block device: a backing file plus the in-memory
// mirror of its free-block bitmap.
type Store struct {
	backend  backend.Storage
	writable backend.WritableFile
	bm       *bitmap.Bitmap
	readOnly bool
	id       uuid.UUID
	log      logrus.FieldLogger
	unlock   func() error
}

// SetLogger overrides the logger used for diagnostic output. Passing
// nil restores the standard logger. Logging is purely observational:
// no call below ever changes behavior based on whether logging
// succeeds.
func (s *Store) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	s.log = l
}

// ID is a fresh, non-persisted identifier generated at Create/Open
// time, used only to correlate log lines from the same mounted
// session. It is not part of the on-disk format.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Create formats a fresh backing file at path. reserved is the number
// of low block ids the caller wants pre-marked in-use (its inode
// region plus root directory block, for example). A value below
// bitmapBlocks is raised to bitmapBlocks, since the bitmap region
// itself always occupies [0, bitmapBlocks).
func Create(path string, reserved int) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("blockstore: path must not be empty")
	}
	if reserved < bitmapBlocks {
		reserved = bitmapBlocks
	}

	st, err := file.CreateFromPath(path, DeviceSize)
	if err != nil {
		return nil, fmt.Errorf("blockstore: create %s: %w", path, err)
	}

	s, err := newStore(st, false)
	if err != nil {
		return nil, err
	}

	for id := 0; id < reserved; id++ {
		if err := s.bm.Set(id); err != nil {
			return nil, fmt.Errorf("blockstore: reserving block %d: %w", id, err)
		}
	}
	if err := s.flushBitmap(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"path": path, "session": s.id, "reserved": reserved}).Info("blockstore: formatted")
	return s, nil
}

// Open mounts an existing backing file at path.
func Open(path string, readOnly bool) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("blockstore: path must not be empty")
	}

	st, err := file.OpenFromPath(path, readOnly)
	if err != nil {
		return nil, fmt.Errorf("blockstore: open %s: %w", path, err)
	}

	s, err := newStore(st, readOnly)
	if err != nil {
		return nil, err
	}

	unlock, err := lockExclusive(path, readOnly)
	if err != nil {
		_ = s.backend.Close()
		return nil, fmt.Errorf("blockstore: %s appears to be mounted elsewhere: %w", path, err)
	}
	s.unlock = unlock

	if err := s.loadBitmap(); err != nil {
		_ = s.Close()
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"path": path, "session": s.id}).Info("blockstore: mounted")
	return s, nil
}

func newStore(st backend.Storage, readOnly bool) (*Store, error) {
	s := &Store{
		backend:  st,
		readOnly: readOnly,
		bm:       bitmap.NewBits(TotalBlocks),
		id:       uuid.New(),
		log:      logrus.StandardLogger(),
	}
	if !readOnly {
		w, err := st.Writable()
		if err != nil {
			return nil, fmt.Errorf("blockstore: backing store is not writable: %w", err)
		}
		s.writable = w
	}
	return s, nil
}

// Close flushes the bitmap (if writable), releases the advisory lock,
// and closes the backing file.
func (s *Store) Close() error {
	var firstErr error
	if !s.readOnly {
		if err := s.flushBitmap(); err != nil {
			firstErr = err
		}
	}
	if s.unlock != nil {
		if err := s.unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("blockstore: release lock: %w", err)
		}
	}
	if err := s.backend.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("blockstore: close backing file: %w", err)
	}
	s.log.WithField("session", s.id).Info("blockstore: closed")
	return firstErr
}

func (s *Store) loadBitmap() error {
	buf := make([]byte, BlockSize)
	bits := make([]byte, 0, bitmapBlocks*BlockSize)
	for b := 0; b < bitmapBlocks; b++ {
		if _, err := s.backend.ReadAt(buf, int64(b)*BlockSize); err != nil {
			return fmt.Errorf("blockstore: read bitmap block %d: %w", b, err)
		}
		bits = append(bits, buf...)
	}
	s.bm = bitmap.FromBytes(bits)
	return nil
}

func (s *Store) flushBitmap() error {
	raw := s.bm.ToBytes()
	for b := 0; b < bitmapBlocks; b++ {
		start := b * BlockSize
		if _, err := s.writable.WriteAt(raw[start:start+BlockSize], int64(b)*BlockSize); err != nil {
			return fmt.Errorf("blockstore: write bitmap block %d: %w", b, err)
		}
	}
	return nil
}

// Allocate claims the first free block at or beyond the reserved
// region and returns its id. It returns ok=false (id 0) when the
// device is exhausted; callers treat a failed allocate as ending the
// current operation with whatever progress it already made intact.
func (s *Store) Allocate() (id uint16, ok bool) {
	loc := s.bm.FirstFree(0)
	if loc < 0 || loc >= TotalBlocks {
		return 0, false
	}
	if err := s.bm.Set(loc); err != nil {
		return 0, false
	}
	return uint16(loc), true
}

// Release frees a previously allocated block id. Releasing an already
// free id is a no-op.
func (s *Store) Release(id uint16) {
	_ = s.bm.Clear(int(id))
}

// ReadBlock reads exactly BlockSize bytes from block id into buf.
func (s *Store) ReadBlock(id uint16, buf []byte) error {
	if len(buf) < BlockSize {
		return fmt.Errorf("blockstore: read buffer too small: %d < %d", len(buf), BlockSize)
	}
	_, err := s.backend.ReadAt(buf[:BlockSize], int64(id)*BlockSize)
	if err != nil {
		return fmt.Errorf("blockstore: read block %d: %w", id, err)
	}
	return nil
}

// WriteBlock writes exactly BlockSize bytes from buf to block id.
func (s *Store) WriteBlock(id uint16, buf []byte) error {
	if s.readOnly {
		return fmt.Errorf("blockstore: store is read-only")
	}
	if len(buf) < BlockSize {
		return fmt.Errorf("blockstore: write buffer too small: %d < %d", len(buf), BlockSize)
	}
	_, err := s.writable.WriteAt(buf[:BlockSize], int64(id)*BlockSize)
	if err != nil {
		return fmt.Errorf("blockstore: write block %d: %w", id, err)
	}
	return nil
}
