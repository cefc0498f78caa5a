package f16fs

import "github.com/sirupsen/logrus"

// Remove deletes the file or directory named by path. Removing a
// non-empty directory fails without modifying it. All blocks
// reachable from the inode -- data blocks and the indirect /
// double-indirect index blocks themselves -- are released, closing
// the leak the reference implementation left in the index-block path.
func (fs *FS) Remove(path string) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}
	tokens, err := splitPath(path)
	if err != nil {
		return err
	}
	parentIdx, name, err := fs.resolveParent(tokens)
	if err != nil {
		return err
	}
	parentIn := &fs.inodes[parentIdx]
	db, err := fs.readDirectoryBlock(parentIn.direct[0])
	if err != nil {
		return err
	}
	recIdx := db.find(name)
	if recIdx < 0 {
		return ErrNotFound
	}
	rec := db.records[recIdx]
	target := &fs.inodes[rec.inodeIndex]

	if target.fileType == Directory {
		targetDB, err := fs.readDirectoryBlock(target.direct[0])
		if err != nil {
			return err
		}
		if targetDB.numEntries > 0 {
			return ErrNotEmpty
		}
		fs.store.Release(target.direct[0])
	} else {
		fs.releaseFileBlocks(target)
	}

	*target = *zeroInode()

	db.removeAt(recIdx)
	fs.log.WithFields(logrus.Fields{"path": path, "remaining": db.numEntries}).
		Debug("f16fs: compacted directory after remove")
	return fs.writeDirectoryBlock(parentIn.direct[0], db)
}

// releaseFileBlocks frees every block reachable from a regular file's
// inode: direct, indirect, and double-indirect data blocks, and the
// index blocks themselves.
func (fs *FS) releaseFileBlocks(in *inode) {
	for i := 0; i < directCount; i++ {
		if in.direct[i] != 0 {
			fs.store.Release(in.direct[i])
		}
	}

	if in.indirect != 0 {
		buf := make([]byte, BlockSize)
		if fs.store.ReadBlock(in.indirect, buf) == nil {
			for slot := 0; slot < indirectCapacity; slot++ {
				if id := decodeBlockID(buf, slot); id != 0 {
					fs.store.Release(id)
				}
			}
		}
		fs.store.Release(in.indirect)
	}

	if in.doubleIndirct != 0 {
		outerBuf := make([]byte, BlockSize)
		if fs.store.ReadBlock(in.doubleIndirct, outerBuf) == nil {
			innerBuf := make([]byte, BlockSize)
			for outer := 0; outer < indirectCapacity; outer++ {
				outerID := decodeBlockID(outerBuf, outer)
				if outerID == 0 {
					continue
				}
				if fs.store.ReadBlock(outerID, innerBuf) == nil {
					for inner := 0; inner < indirectCapacity; inner++ {
						if id := decodeBlockID(innerBuf, inner); id != 0 {
							fs.store.Release(id)
						}
					}
				}
				fs.store.Release(outerID)
			}
		}
		fs.store.Release(in.doubleIndirct)
	}
}

// Move renames/relocates the record at src to dst. The underlying
// inode and its block chain are untouched: already-open file
// descriptors (which reference an inode index, not a path) remain
// valid across the move.
func (fs *FS) Move(src, dst string) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	if err := validatePath(src); err != nil {
		return err
	}
	if err := validatePath(dst); err != nil {
		return err
	}

	srcTokens, err := splitPath(src)
	if err != nil {
		return err
	}
	dstTokens, err := splitPath(dst)
	if err != nil {
		return err
	}

	srcParentTokens, srcName := basename(srcTokens)
	dstParentTokens, dstName := basename(dstTokens)

	if len(dstParentTokens) > 0 && dstParentTokens[len(dstParentTokens)-1] == srcName {
		return ErrInvalidArgument
	}

	srcParentIdx, err := fs.resolveTokens(srcParentTokens)
	if err != nil {
		return err
	}
	dstParentIdx, err := fs.resolveTokens(dstParentTokens)
	if err != nil {
		return err
	}
	if fs.inodes[srcParentIdx].fileType != Directory || fs.inodes[dstParentIdx].fileType != Directory {
		return ErrWrongKind
	}

	srcParentIn := &fs.inodes[srcParentIdx]
	dstParentIn := &fs.inodes[dstParentIdx]

	srcDB, err := fs.readDirectoryBlock(srcParentIn.direct[0])
	if err != nil {
		return err
	}
	srcIdx := srcDB.find(srcName)
	if srcIdx < 0 {
		return ErrNotFound
	}

	var dstDB *directoryBlock
	if srcParentIdx == dstParentIdx {
		dstDB = srcDB
	} else {
		dstDB, err = fs.readDirectoryBlock(dstParentIn.direct[0])
		if err != nil {
			return err
		}
	}
	if dstDB.find(dstName) >= 0 {
		return ErrNameConflict
	}
	if int(dstDB.numEntries) >= maxDirEntries {
		fs.log.WithField("dst", dst).Warn("f16fs: destination directory full")
		return ErrExhausted
	}

	moved := srcDB.records[srcIdx]
	moved.name = dstName

	dstDB.append(moved)
	if srcParentIdx == dstParentIdx {
		srcDB.removeAt(srcIdx)
		return fs.writeDirectoryBlock(srcParentIn.direct[0], srcDB)
	}

	srcDB.removeAt(srcIdx)
	if err := fs.writeDirectoryBlock(dstParentIn.direct[0], dstDB); err != nil {
		return err
	}
	return fs.writeDirectoryBlock(srcParentIn.direct[0], srcDB)
}

// List returns the records held by the directory at path, including
// the root.
func (fs *FS) List(path string) ([]record, error) {
	if err := fs.checkMounted(); err != nil {
		return nil, err
	}
	if path != "/" {
		if err := validatePath(path); err != nil {
			return nil, err
		}
	}
	tokens, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	idx, err := fs.resolveTokens(tokens)
	if err != nil {
		return nil, err
	}
	in := &fs.inodes[idx]
	if in.fileType != Directory {
		return nil, ErrWrongKind
	}
	db, err := fs.readDirectoryBlock(in.direct[0])
	if err != nil {
		return nil, err
	}
	out := make([]record, db.numEntries)
	copy(out, db.records[:db.numEntries])
	return out, nil
}
