package f16fs

// Create adds a new file or directory record under path's parent
// directory. path must be absolute, non-root, without a trailing
// slash, and at most maxPathLength bytes.
func (fs *FS) Create(path string, fileType FileType) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}
	if fileType != Regular && fileType != Directory {
		return ErrInvalidArgument
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
	if db.find(name) >= 0 {
		return ErrNameConflict
	}
	if int(db.numEntries) >= maxDirEntries {
		fs.log.WithField("path", path).Warn("f16fs: directory full")
		return ErrExhausted
	}

	newIdx, err := fs.allocInode()
	if err != nil {
		return err
	}

	blockID, ok := fs.store.Allocate()
	if !ok {
		fs.log.WithField("path", path).Warn("f16fs: block store exhausted allocating new file's first block")
		return ErrExhausted
	}

	newIn := &fs.inodes[newIdx]
	*newIn = inode{fileType: fileType, useFlag: true}
	newIn.direct[0] = blockID
	if fileType == Directory {
		newIn.fileSize = BlockSize
		if err := fs.store.WriteBlock(blockID, (&directoryBlock{}).toBytes()); err != nil {
			fs.store.Release(blockID)
			*newIn = *zeroInode()
			return err
		}
	}

	db.append(record{name: name, recordType: fileType, inodeIndex: uint16(newIdx)})
	if err := fs.writeDirectoryBlock(parentIn.direct[0], db); err != nil {
		fs.store.Release(blockID)
		*newIn = *zeroInode()
		return err
	}
	return nil
}

// allocInode scans the inode table in index order for the first free
// slot.
func (fs *FS) allocInode() (int, error) {
	for i := range fs.inodes {
		if !fs.inodes[i].inUse() {
			return i, nil
		}
	}
	fs.log.Warn("f16fs: inode table exhausted")
	return 0, ErrExhausted
}

// Open resolves path to a regular file and returns a file descriptor
// positioned at offset 0.
func (fs *FS) Open(path string) (int, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	if err := validatePath(path); err != nil {
		return 0, err
	}
	tokens, err := splitPath(path)
	if err != nil {
		return 0, err
	}
	parentIdx, name, err := fs.resolveParent(tokens)
	if err != nil {
		return 0, err
	}
	db, err := fs.readDirectoryBlock(fs.inodes[parentIdx].direct[0])
	if err != nil {
		return 0, err
	}
	idx := db.find(name)
	if idx < 0 {
		return 0, ErrNotFound
	}
	rec := db.records[idx]
	if rec.recordType == Directory {
		return 0, ErrWrongKind
	}
	return fs.allocDescriptor(int(rec.inodeIndex))
}

// Close releases the file descriptor fd.
func (fs *FS) Close(fd int) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	d, err := fs.descriptorAt(fd)
	if err != nil {
		return err
	}
	d.inodeIndex = -1
	d.offset = 0
	return nil
}

// Seek repositions fd's offset per whence, clamped to [0, file_size].
func (fs *FS) Seek(fd int, offset int64, whence Whence) (uint64, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	d, err := fs.descriptorAt(fd)
	if err != nil {
		return 0, err
	}
	in := &fs.inodes[d.inodeIndex]

	var base int64
	switch whence {
	case SeekSet:
		base = 0
	case SeekCurrent:
		base = int64(d.offset)
	case SeekEnd:
		base = int64(in.fileSize)
	default:
		return 0, ErrInvalidArgument
	}

	next := base + offset
	if next < 0 {
		next = 0
	}
	if next > int64(in.fileSize) {
		next = int64(in.fileSize)
	}
	d.offset = uint64(next)
	return d.offset, nil
}

// Link is declared for API parity with the on-disk design's intent
// but never built out; hard-linking is out of scope.
func (fs *FS) Link(src, dst string) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	return ErrNotImplemented
}
