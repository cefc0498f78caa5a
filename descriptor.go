package f16fs

// descriptor is an in-memory, process-local file handle: the inode it
// refers to and the current byte offset within it. It is never
// serialized to disk.
type descriptor struct {
	inodeIndex int16
	offset     uint64
}

func (d *descriptor) free() bool {
	return d.inodeIndex < 0
}

// allocDescriptor scans the descriptor table for the first free slot,
// claims it for inodeIndex at offset 0, and returns its index.
func (fs *FS) allocDescriptor(inodeIndex int) (int, error) {
	for i := range fs.descs {
		if fs.descs[i].free() {
			fs.descs[i] = descriptor{inodeIndex: int16(inodeIndex), offset: 0}
			return i, nil
		}
	}
	fs.log.Warn("f16fs: descriptor table exhausted")
	return 0, ErrExhausted
}

// descriptorAt validates fd is in range and currently in use.
func (fs *FS) descriptorAt(fd int) (*descriptor, error) {
	if fd < 0 || fd >= maxFileDescriptors {
		return nil, ErrInvalidArgument
	}
	d := &fs.descs[fd]
	if d.free() {
		return nil, ErrNotFound
	}
	return d, nil
}
