package f16fs

import (
	"encoding/binary"
	"fmt"
)

// inodeSize is the fixed on-disk size of one inode: the packing
// invariant that makes 8 inodes fit exactly one 512-byte block.
const inodeSize = 64

// byte offsets within a serialized inode. Named individually, the way
// an ext4 inode layout documents its own 0x.. offsets, rather than
// relying on struct alignment.
// The declared fields (type, flag, size, blocks-in-use, 21 bytes of
// padding, direct, indirect, double-indirect) only account for 51 of
// the 64 bytes; a C
// struct with an 8-byte-aligned file_size field would reach 64 via
// compiler-inserted alignment padding the field list alone doesn't
// show. The padding region here is widened to absorb that difference,
// since the 64-byte total is what the inode-table packing depends on.
const (
	offFileType      = 0
	offUseFlag       = 1
	offFileSize      = 2
	offBlocksInUse   = 10
	offPadding       = 14
	offDirect        = 48
	offIndirect      = 60
	offDoubleIndirct = 62
	inodePaddingLen  = offDirect - offPadding // 34
)

// inode is the in-memory form of one 64-byte on-disk inode.
type inode struct {
	fileType      FileType
	useFlag       bool
	fileSize      uint64
	blocksInUse   uint32
	direct        [directCount]uint16
	indirect      uint16
	doubleIndirct uint16
}

// inUse reports whether this inode currently names a live file.
func (i *inode) inUse() bool {
	return i.useFlag
}

// toBytes serializes the inode to its fixed 64-byte on-disk form.
func (i *inode) toBytes() []byte {
	b := make([]byte, inodeSize)

	b[offFileType] = byte(i.fileType)
	if i.useFlag {
		b[offUseFlag] = 1
	}
	binary.LittleEndian.PutUint64(b[offFileSize:offFileSize+8], i.fileSize)
	binary.LittleEndian.PutUint32(b[offBlocksInUse:offBlocksInUse+4], i.blocksInUse)
	// b[offPadding:offDirect] left zero

	for idx, id := range i.direct {
		o := offDirect + idx*2
		binary.LittleEndian.PutUint16(b[o:o+2], id)
	}
	binary.LittleEndian.PutUint16(b[offIndirect:offIndirect+2], i.indirect)
	binary.LittleEndian.PutUint16(b[offDoubleIndirct:offDoubleIndirct+2], i.doubleIndirct)

	return b
}

// inodeFromBytes parses a 64-byte on-disk inode.
func inodeFromBytes(b []byte) (*inode, error) {
	if len(b) < inodeSize {
		return nil, fmt.Errorf("f16fs: inode data too short: %d bytes, need %d", len(b), inodeSize)
	}

	i := &inode{
		fileType:      FileType(b[offFileType]),
		useFlag:       b[offUseFlag] != 0,
		fileSize:      binary.LittleEndian.Uint64(b[offFileSize : offFileSize+8]),
		blocksInUse:   binary.LittleEndian.Uint32(b[offBlocksInUse : offBlocksInUse+4]),
		indirect:      binary.LittleEndian.Uint16(b[offIndirect : offIndirect+2]),
		doubleIndirct: binary.LittleEndian.Uint16(b[offDoubleIndirct : offDoubleIndirct+2]),
	}
	for idx := range i.direct {
		o := offDirect + idx*2
		i.direct[idx] = binary.LittleEndian.Uint16(b[o : o+2])
	}
	return i, nil
}

// zeroInode is the all-zero, unused state a free inode slot must hold.
func zeroInode() *inode {
	return &inode{}
}
