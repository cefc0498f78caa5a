package f16fs

import (
	"bytes"
	"testing"

	"github.com/blockfs/f16fs/util"
)

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestWriteReadRoundTripVariousSizes(t *testing.T) {
	sizes := []int{1, 511, 512, 513, 3072, 128 * 1024}
	for _, n := range sizes {
		n := n
		t.Run("", func(t *testing.T) {
			fs, _ := mustFormat(t)
			defer fs.Unmount()

			if err := fs.Create("/f", Regular); err != nil {
				t.Fatalf("Create: %v", err)
			}
			fd, err := fs.Open("/f")
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			want := pattern(n)
			written, err := fs.Write(fd, want)
			if err != nil || written != n {
				t.Fatalf("Write: written=%d, err=%v, want %d", written, err, n)
			}
			if _, err := fs.Seek(fd, 0, SeekSet); err != nil {
				t.Fatalf("Seek: %v", err)
			}
			got := make([]byte, n)
			read, err := fs.Read(fd, got)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if read != n {
				t.Fatalf("Read: read=%d, want %d", read, n)
			}
			if !bytes.Equal(got, want) {
				_, dump := util.DumpByteSlicesWithDiffs(got, want, 16, true, true, false)
				t.Fatalf("round trip mismatch for n=%d\n%s", n, dump)
			}
		})
	}
}

func TestWriteSpansDirectAndIndirectBlocks(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/big", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fd, err := fs.Open("/big")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	n := 3072 // 6 direct blocks (3072 bytes) exactly
	want := pattern(n)
	written, err := fs.Write(fd, want)
	if err != nil || written != n {
		t.Fatalf("Write: written=%d, err=%v", written, err)
	}

	in := &fs.inodes[fs.descs[fd].inodeIndex]
	for i := 0; i < directCount; i++ {
		if in.direct[i] == 0 {
			t.Fatalf("direct[%d] unallocated after writing %d bytes", i, n)
		}
	}

	// one more byte should spill into the indirect tier.
	if _, err := fs.Write(fd, []byte{0xAB}); err != nil {
		t.Fatalf("Write spillover byte: %v", err)
	}
	if in.indirect == 0 {
		t.Fatalf("indirect pointer unallocated after spilling past direct blocks")
	}
}

// TestWriteReadRoundTripSpansDoubleIndirectTier exercises a full
// Write/Seek/Read cycle past firstDoubleIndirectBlock. A 67 MiB file
// is unreachable on this device: 16-bit block ids cap a whole volume at
// TotalBlocks*BlockSize = 32 MiB (blockstore.DeviceSize), so a file a
// little past the start of the double-indirect tier is used instead.
func TestWriteReadRoundTripSpansDoubleIndirectTier(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/huge", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fd, err := fs.Open("/huge")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// firstDoubleIndirectBlock*BlockSize is the first byte offset served
	// by the double-indirect pointer; go comfortably past it.
	n := (firstDoubleIndirectBlock + indirectCapacity + 16) * BlockSize
	want := pattern(n)
	written, err := fs.Write(fd, want)
	if err != nil || written != n {
		t.Fatalf("Write: written=%d, err=%v, want %d", written, err, n)
	}

	in := &fs.inodes[fs.descs[fd].inodeIndex]
	if in.doubleIndirct == 0 {
		t.Fatalf("double-indirect pointer unallocated after writing %d bytes", n)
	}

	if _, err := fs.Seek(fd, 0, SeekSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, n)
	read, err := fs.Read(fd, got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if read != n {
		t.Fatalf("Read: read=%d, want %d", read, n)
	}
	if !bytes.Equal(got, want) {
		_, dump := util.DumpByteSlicesWithDiffs(got, want, 16, true, true, false)
		t.Fatalf("round trip mismatch for n=%d\n%s", n, dump)
	}
}

func TestReadPastEOFReturnsZero(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/f", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fd, err := fs.Open("/f")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := fs.Write(fd, []byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Write does not move the descriptor offset; seek to EOF explicitly.
	if _, err := fs.Seek(fd, 0, SeekEnd); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	buf := make([]byte, 10)
	n, err := fs.Read(fd, buf)
	if err != nil || n != 0 {
		t.Fatalf("Read at EOF: n=%d, err=%v, want 0", n, err)
	}
}

func TestWriteZeroBytesIsNoop(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/f", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fd, err := fs.Open("/f")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	n, err := fs.Write(fd, nil)
	if err != nil || n != 0 {
		t.Fatalf("Write(nil): n=%d, err=%v", n, err)
	}
}
