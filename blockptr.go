package f16fs

// ioMode selects whether resolveBlock may allocate on the fly.
type ioMode int

const (
	modeRead ioMode = iota
	modeWrite
)

// resolveBlock maps logical block index L of the inode at inodeIndex
// to a physical block id, allocating index blocks and data blocks
// lazily when mode is modeWrite. In modeRead, an unallocated slot
// simply yields id 0 (treated by callers as "no block"); in
// modeWrite, allocation failure returns ErrExhausted and leaves
// already-written data untouched.
func (fs *FS) resolveBlock(inodeIndex int, l int, mode ioMode) (uint16, error) {
	in := &fs.inodes[inodeIndex]

	switch {
	case l < directCount:
		if in.direct[l] == 0 {
			if mode != modeWrite {
				return 0, nil
			}
			id, ok := fs.store.Allocate()
			if !ok {
				fs.log.WithField("inode", inodeIndex).Warn("f16fs: block store exhausted allocating direct block")
				return 0, ErrExhausted
			}
			in.direct[l] = id
		}
		return in.direct[l], nil

	case l < firstDoubleIndirectBlock:
		slot := l - firstIndirectBlock
		return fs.resolveIndirect(inodeIndex, &in.indirect, slot, mode)

	default:
		rel := l - firstDoubleIndirectBlock
		outer := rel / indirectCapacity
		inner := rel % indirectCapacity
		if outer >= indirectCapacity {
			return 0, ErrInvalidArgument
		}

		if in.doubleIndirct == 0 {
			if mode != modeWrite {
				return 0, nil
			}
			id, ok := fs.store.Allocate()
			if !ok {
				fs.log.WithField("inode", inodeIndex).Warn("f16fs: block store exhausted allocating double-indirect index block")
				return 0, ErrExhausted
			}
			in.doubleIndirct = id
			if err := fs.store.WriteBlock(id, make([]byte, BlockSize)); err != nil {
				return 0, err
			}
		}

		outerBuf := make([]byte, BlockSize)
		if in.doubleIndirct != 0 {
			if err := fs.store.ReadBlock(in.doubleIndirct, outerBuf); err != nil {
				return 0, err
			}
		}
		outerID := decodeBlockID(outerBuf, outer)
		if outerID == 0 {
			if mode != modeWrite {
				return 0, nil
			}
			id, ok := fs.store.Allocate()
			if !ok {
				fs.log.WithField("inode", inodeIndex).Warn("f16fs: block store exhausted allocating double-indirect outer index block")
				return 0, ErrExhausted
			}
			if err := fs.store.WriteBlock(id, make([]byte, BlockSize)); err != nil {
				return 0, err
			}
			outerID = id
			encodeBlockID(outerBuf, outer, outerID)
			if err := fs.store.WriteBlock(in.doubleIndirct, outerBuf); err != nil {
				return 0, err
			}
		}

		innerBuf := make([]byte, BlockSize)
		if err := fs.store.ReadBlock(outerID, innerBuf); err != nil {
			return 0, err
		}
		id := decodeBlockID(innerBuf, inner)
		if id == 0 {
			if mode != modeWrite {
				return 0, nil
			}
			newID, ok := fs.store.Allocate()
			if !ok {
				fs.log.WithField("inode", inodeIndex).Warn("f16fs: block store exhausted allocating double-indirect data block")
				return 0, ErrExhausted
			}
			id = newID
			encodeBlockID(innerBuf, inner, id)
			if err := fs.store.WriteBlock(outerID, innerBuf); err != nil {
				return 0, err
			}
		}
		return id, nil
	}
}

// resolveIndirect handles the single-level indirect tier shared by
// the direct inode.indirect pointer: allocate the index block itself
// on first write, then the data block it names.
func (fs *FS) resolveIndirect(inodeIndex int, indirectPtr *uint16, slot int, mode ioMode) (uint16, error) {
	if *indirectPtr == 0 {
		if mode != modeWrite {
			return 0, nil
		}
		id, ok := fs.store.Allocate()
		if !ok {
			fs.log.WithField("inode", inodeIndex).Warn("f16fs: block store exhausted allocating indirect index block")
			return 0, ErrExhausted
		}
		*indirectPtr = id
		if err := fs.store.WriteBlock(id, make([]byte, BlockSize)); err != nil {
			return 0, err
		}
	}

	buf := make([]byte, BlockSize)
	if err := fs.store.ReadBlock(*indirectPtr, buf); err != nil {
		return 0, err
	}
	id := decodeBlockID(buf, slot)
	if id == 0 {
		if mode != modeWrite {
			return 0, nil
		}
		newID, ok := fs.store.Allocate()
		if !ok {
			fs.log.WithField("inode", inodeIndex).Warn("f16fs: block store exhausted allocating indirect data block")
			return 0, ErrExhausted
		}
		id = newID
		encodeBlockID(buf, slot, id)
		if err := fs.store.WriteBlock(*indirectPtr, buf); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func decodeBlockID(buf []byte, slot int) uint16 {
	off := slot * 2
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}

func encodeBlockID(buf []byte, slot int, id uint16) {
	off := slot * 2
	buf[off] = byte(id)
	buf[off+1] = byte(id >> 8)
}
