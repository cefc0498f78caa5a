package f16fs

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/blockfs/f16fs/blockstore"
)

// FS is a mounted volume: the in-memory inode table and file
// descriptor table, backed by a blockstore.Store. A zero FS is not
// usable; obtain one via Format or Mount.
type FS struct {
	store    *blockstore.Store
	inodes   [totalInodes]inode
	descs    [maxFileDescriptors]descriptor
	log      logrus.FieldLogger
	readOnly bool
	closed   bool
}

// checkMounted guards every exported FS method against use after
// Unmount, or against a nil receiver.
func (fs *FS) checkMounted() error {
	if fs == nil {
		return ErrNotMounted
	}
	if fs.closed {
		return ErrClosed
	}
	return nil
}

// SetLogger overrides the logger used for diagnostic output. Passing
// nil restores the standard logger.
func (fs *FS) SetLogger(l logrus.FieldLogger) {
	if fs == nil {
		return
	}
	if l == nil {
		l = logrus.StandardLogger()
	}
	fs.log = l
}

// Format creates a fresh volume at path: a new block store, the root
// inode and root directory block, and an empty descriptor table.
func Format(path string) (*FS, error) {
	if path == "" {
		return nil, ErrInvalidArgument
	}

	store, err := blockstore.Create(path, dataRegionStart)
	if err != nil {
		return nil, fmt.Errorf("f16fs: format: %w", err)
	}

	fs := newFS(store, false)

	rootDirBlock, ok := store.Allocate()
	if !ok || rootDirBlock != dataRegionStart {
		_ = store.Close()
		return nil, fmt.Errorf("f16fs: format: root directory block allocation mismatch")
	}
	empty := (&directoryBlock{}).toBytes()
	if err := store.WriteBlock(rootDirBlock, empty); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("f16fs: format: %w", err)
	}

	root := &inode{
		fileType: Directory,
		useFlag:  true,
		fileSize: BlockSize,
	}
	root.direct[0] = rootDirBlock
	fs.inodes[rootInodeIndex] = *root

	if err := fs.writeInodeTable(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("f16fs: format: %w", err)
	}

	fs.resetDescriptors()
	fs.log.WithField("session", store.ID()).Info("f16fs: formatted")
	return fs, nil
}

// Mount opens an existing volume at path and loads its inode table
// into memory.
func Mount(path string, readOnly bool) (*FS, error) {
	if path == "" {
		return nil, ErrInvalidArgument
	}

	store, err := blockstore.Open(path, readOnly)
	if err != nil {
		return nil, fmt.Errorf("f16fs: mount: %w", err)
	}

	fs := newFS(store, readOnly)
	if err := fs.readInodeTable(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("f16fs: mount: %w", err)
	}
	fs.resetDescriptors()

	fs.log.WithField("session", store.ID()).Info("f16fs: mounted")
	return fs, nil
}

// Unmount writes the in-memory inode table back to disk and closes
// the backing store.
func (fs *FS) Unmount() error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	if !fs.readOnly {
		if err := fs.writeInodeTable(); err != nil {
			return fmt.Errorf("f16fs: unmount: %w", err)
		}
	}
	if err := fs.store.Close(); err != nil {
		return fmt.Errorf("f16fs: unmount: %w", err)
	}
	fs.closed = true
	fs.log.Info("f16fs: unmounted")
	return nil
}

func newFS(store *blockstore.Store, readOnly bool) *FS {
	return &FS{
		store:    store,
		log:      logrus.StandardLogger(),
		readOnly: readOnly,
	}
}

func (fs *FS) resetDescriptors() {
	for i := range fs.descs {
		fs.descs[i] = descriptor{inodeIndex: -1}
	}
}

func (fs *FS) readInodeTable() error {
	buf := make([]byte, BlockSize)
	for blk := 0; blk < inodeRegionBlocks; blk++ {
		if err := fs.store.ReadBlock(uint16(inodeRegionStart+blk), buf); err != nil {
			return fmt.Errorf("read inode block %d: %w", blk, err)
		}
		for slot := 0; slot < inodesPerBlock; slot++ {
			idx := blk*inodesPerBlock + slot
			off := slot * inodeSize
			in, err := inodeFromBytes(buf[off : off+inodeSize])
			if err != nil {
				return fmt.Errorf("decode inode %d: %w", idx, err)
			}
			fs.inodes[idx] = *in
		}
	}
	return nil
}

func (fs *FS) writeInodeTable() error {
	buf := make([]byte, BlockSize)
	for blk := 0; blk < inodeRegionBlocks; blk++ {
		for slot := 0; slot < inodesPerBlock; slot++ {
			idx := blk*inodesPerBlock + slot
			off := slot * inodeSize
			copy(buf[off:off+inodeSize], fs.inodes[idx].toBytes())
		}
		if err := fs.store.WriteBlock(uint16(inodeRegionStart+blk), buf); err != nil {
			return fmt.Errorf("write inode block %d: %w", blk, err)
		}
	}
	return nil
}

func (fs *FS) readDirectoryBlock(blockID uint16) (*directoryBlock, error) {
	buf := make([]byte, BlockSize)
	if err := fs.store.ReadBlock(blockID, buf); err != nil {
		return nil, fmt.Errorf("read directory block %d: %w", blockID, err)
	}
	return directoryBlockFromBytes(buf)
}

func (fs *FS) writeDirectoryBlock(blockID uint16, db *directoryBlock) error {
	return fs.store.WriteBlock(blockID, db.toBytes())
}
