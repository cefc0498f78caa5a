package f16fs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// recordSize is the fixed on-disk size of one file record:
// name(64) + type(1) + padding(5) + inode_index(2) = 72.
const recordSize = 72

const (
	offRecName  = 0
	offRecType  = 64
	offRecPad   = 65
	offRecInode = 70
	recNameLen  = offRecType - offRecName // 64
)

// record is one (name, type, inode index) entry inside a directory block.
type record struct {
	name       string
	recordType FileType
	inodeIndex uint16
}

func (r *record) toBytes() []byte {
	b := make([]byte, recordSize)
	copy(b[offRecName:offRecName+recNameLen-1], r.name) // NUL-terminated, max 63 chars
	b[offRecType] = byte(r.recordType)
	binary.LittleEndian.PutUint16(b[offRecInode:offRecInode+2], r.inodeIndex)
	return b
}

func recordFromBytes(b []byte) record {
	nameBytes := b[offRecName : offRecName+recNameLen]
	if i := bytes.IndexByte(nameBytes, 0); i >= 0 {
		nameBytes = nameBytes[:i]
	}
	return record{
		name:       string(nameBytes),
		recordType: FileType(b[offRecType]),
		inodeIndex: binary.LittleEndian.Uint16(b[offRecInode : offRecInode+2]),
	}
}

// The declared directory-block fields (records 7*72=504 + padding 5 +
// num_entries 1 = 510) are two bytes short of a 512-byte block; as
// with the inode table, the block-size total is the load-bearing
// invariant (a directory occupies exactly one data block), so the
// padding region absorbs the two-byte difference.
const (
	offDirRecords = 0
	offDirPadding = offDirRecords + maxDirEntries*recordSize // 504
	offDirNumEnt  = BlockSize - 1                            // 511
	dirPaddingLen = offDirNumEnt - offDirPadding             // 7
)

// directoryBlock is the in-memory form of one 512-byte directory block:
// up to maxDirEntries file records plus a count of how many are valid.
type directoryBlock struct {
	records    [maxDirEntries]record
	numEntries uint8
}

func (d *directoryBlock) toBytes() []byte {
	b := make([]byte, BlockSize)
	for i := 0; i < int(d.numEntries); i++ {
		rb := d.records[i].toBytes()
		copy(b[offDirRecords+i*recordSize:], rb)
	}
	b[offDirNumEnt] = d.numEntries
	return b
}

func directoryBlockFromBytes(b []byte) (*directoryBlock, error) {
	if len(b) < BlockSize {
		return nil, fmt.Errorf("f16fs: directory block data too short: %d bytes, need %d", len(b), BlockSize)
	}
	d := &directoryBlock{numEntries: b[offDirNumEnt]}
	if d.numEntries > maxDirEntries {
		return nil, fmt.Errorf("f16fs: corrupt directory block: num_entries %d exceeds %d", d.numEntries, maxDirEntries)
	}
	for i := 0; i < int(d.numEntries); i++ {
		o := offDirRecords + i*recordSize
		d.records[i] = recordFromBytes(b[o : o+recordSize])
	}
	return d, nil
}

// find returns the index of the record named name, or -1.
func (d *directoryBlock) find(name string) int {
	for i := 0; i < int(d.numEntries); i++ {
		if d.records[i].name == name {
			return i
		}
	}
	return -1
}

// append adds r as a new record. Caller must have already checked
// name uniqueness and that the directory is not full.
func (d *directoryBlock) append(r record) {
	d.records[d.numEntries] = r
	d.numEntries++
}

// removeAt compacts the record at index i out of the directory by
// swapping in the last record, then shrinking the count.
func (d *directoryBlock) removeAt(i int) {
	last := int(d.numEntries) - 1
	if i != last {
		d.records[i] = d.records[last]
	}
	d.records[last] = record{}
	d.numEntries--
}
