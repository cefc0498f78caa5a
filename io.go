package f16fs

// Read copies up to len(dst) bytes from fd's current offset, advancing
// it by the number of bytes actually copied. Reads past end of file
// are truncated at EOF; a read that starts at or past EOF returns 0.
func (fs *FS) Read(fd int, dst []byte) (int, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	d, err := fs.descriptorAt(fd)
	if err != nil {
		return 0, err
	}
	if len(dst) == 0 {
		return 0, nil
	}

	in := &fs.inodes[d.inodeIndex]
	remaining := len(dst)
	copied := 0
	buf := make([]byte, BlockSize)

	for remaining > 0 && d.offset < in.fileSize {
		l := int(d.offset / BlockSize)
		intra := int(d.offset % BlockSize)

		blockID, err := fs.resolveBlock(int(d.inodeIndex), l, modeRead)
		if err != nil || blockID == 0 {
			break
		}
		if err := fs.store.ReadBlock(blockID, buf); err != nil {
			break
		}

		chunk := BlockSize - intra
		if chunk > remaining {
			chunk = remaining
		}
		if untilEOF := int(in.fileSize - d.offset); chunk > untilEOF {
			chunk = untilEOF
		}
		copy(dst[copied:copied+chunk], buf[intra:intra+chunk])

		copied += chunk
		remaining -= chunk
		d.offset += uint64(chunk)
	}

	return copied, nil
}

// Write appends len(src) bytes to fd's file, starting from the file's
// current size regardless of the descriptor's offset (writes always
// append; seeking to the middle and then writing does not overwrite
// in place). Returns the number of bytes actually written, which may
// be less than len(src) if the device runs out of blocks; bytes
// already written are retained.
func (fs *FS) Write(fd int, src []byte) (int, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	d, err := fs.descriptorAt(fd)
	if err != nil {
		return 0, err
	}
	if len(src) == 0 {
		return 0, nil
	}

	in := &fs.inodes[d.inodeIndex]
	remaining := len(src)
	written := 0
	buf := make([]byte, BlockSize)

	for remaining > 0 {
		l := int(in.fileSize / BlockSize)
		intra := int(in.fileSize % BlockSize)

		blockID, err := fs.resolveBlock(int(d.inodeIndex), l, modeWrite)
		if err != nil || blockID == 0 {
			break
		}

		chunk := BlockSize - intra
		if chunk > remaining {
			chunk = remaining
		}

		if intra != 0 {
			if err := fs.store.ReadBlock(blockID, buf); err != nil {
				break
			}
			copy(buf[intra:intra+chunk], src[written:written+chunk])
			if err := fs.store.WriteBlock(blockID, buf); err != nil {
				break
			}
		} else if chunk == BlockSize {
			if err := fs.store.WriteBlock(blockID, src[written:written+chunk]); err != nil {
				break
			}
		} else {
			full := make([]byte, BlockSize)
			copy(full, src[written:written+chunk])
			if err := fs.store.WriteBlock(blockID, full); err != nil {
				break
			}
		}

		in.fileSize += uint64(chunk)
		written += chunk
		remaining -= chunk
	}

	return written, nil
}
