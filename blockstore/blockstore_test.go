package blockstore

import (
	"testing"

	"github.com/blockfs/f16fs/testhelper"
)

func newMemStore(t *testing.T, reserved int) *Store {
	t.Helper()
	mem := testhelper.NewMemStorage(DeviceSize, false)
	s, err := newStore(mem, false)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	for id := 0; id < reserved; id++ {
		if err := s.bm.Set(id); err != nil {
			t.Fatalf("reserve %d: %v", id, err)
		}
	}
	return s
}

func TestAllocateSkipsReservedRegion(t *testing.T) {
	s := newMemStore(t, 48)

	id, ok := s.Allocate()
	if !ok {
		t.Fatalf("Allocate: expected ok")
	}
	if id != 48 {
		t.Fatalf("Allocate: got id %d, want 48", id)
	}
}

func TestAllocateThenRelease(t *testing.T) {
	s := newMemStore(t, 48)

	id, ok := s.Allocate()
	if !ok {
		t.Fatalf("Allocate: expected ok")
	}
	s.Release(id)

	again, ok := s.Allocate()
	if !ok || again != id {
		t.Fatalf("Allocate after Release: got (%d, %v), want (%d, true)", again, ok, id)
	}
}

func TestReadWriteBlockRoundTrip(t *testing.T) {
	s := newMemStore(t, 48)

	id, ok := s.Allocate()
	if !ok {
		t.Fatalf("Allocate: expected ok")
	}

	want := make([]byte, BlockSize)
	for i := range want {
		want[i] = byte(i)
	}
	if err := s.WriteBlock(id, want); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}

	got := make([]byte, BlockSize)
	if err := s.ReadBlock(id, got); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestWriteBlockRejectsShortBuffer(t *testing.T) {
	s := newMemStore(t, 48)
	id, _ := s.Allocate()
	if err := s.WriteBlock(id, make([]byte, BlockSize-1)); err == nil {
		t.Fatalf("WriteBlock: expected error for short buffer")
	}
}

func TestWriteBlockRejectsReadOnly(t *testing.T) {
	mem := testhelper.NewMemStorage(DeviceSize, true)
	s, err := newStore(mem, true)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	if err := s.WriteBlock(48, make([]byte, BlockSize)); err == nil {
		t.Fatalf("WriteBlock: expected error on read-only store")
	}
}

func TestAllocateExhaustion(t *testing.T) {
	s := newMemStore(t, 0)
	for id := 0; id < TotalBlocks; id++ {
		if err := s.bm.Set(id); err != nil {
			t.Fatalf("Set %d: %v", id, err)
		}
	}
	if _, ok := s.Allocate(); ok {
		t.Fatalf("Allocate: expected exhaustion")
	}
}

func TestBitmapFlushAndLoadRoundTrip(t *testing.T) {
	mem := testhelper.NewMemStorage(DeviceSize, false)
	s, err := newStore(mem, false)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	for _, id := range []int{0, 1, 48, 100, 65535} {
		if err := s.bm.Set(id); err != nil {
			t.Fatalf("Set %d: %v", id, err)
		}
	}
	if err := s.flushBitmap(); err != nil {
		t.Fatalf("flushBitmap: %v", err)
	}

	s2, err := newStore(mem, false)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	if err := s2.loadBitmap(); err != nil {
		t.Fatalf("loadBitmap: %v", err)
	}
	for _, id := range []int{0, 1, 48, 100, 65535} {
		set, err := s2.bm.IsSet(id)
		if err != nil {
			t.Fatalf("IsSet %d: %v", id, err)
		}
		if !set {
			t.Fatalf("bit %d lost across flush/load round-trip", id)
		}
	}
}
