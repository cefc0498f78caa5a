package f16fs

import "testing"

func TestResolveBlockReadUnallocatedReturnsZero(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/a", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	parentIdx, name, err := fs.resolveParent([]string{"a"})
	if err != nil {
		t.Fatalf("resolveParent: %v", err)
	}
	db, err := fs.readDirectoryBlock(fs.inodes[parentIdx].direct[0])
	if err != nil {
		t.Fatalf("readDirectoryBlock: %v", err)
	}
	idx := int(db.records[db.find(name)].inodeIndex)

	id, err := fs.resolveBlock(idx, 0, modeRead)
	if err != nil {
		t.Fatalf("resolveBlock(read, unallocated): %v", err)
	}
	if id != 0 {
		t.Fatalf("resolveBlock(read, unallocated) = %d, want 0", id)
	}
}

func TestResolveBlockWriteAllocatesLazily(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/a", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	parentIdx, name, err := fs.resolveParent([]string{"a"})
	if err != nil {
		t.Fatalf("resolveParent: %v", err)
	}
	db, err := fs.readDirectoryBlock(fs.inodes[parentIdx].direct[0])
	if err != nil {
		t.Fatalf("readDirectoryBlock: %v", err)
	}
	idx := int(db.records[db.find(name)].inodeIndex)

	id, err := fs.resolveBlock(idx, 0, modeWrite)
	if err != nil {
		t.Fatalf("resolveBlock(write): %v", err)
	}
	if id == 0 {
		t.Fatalf("resolveBlock(write) should allocate a non-zero block id")
	}
	if fs.inodes[idx].direct[0] != id {
		t.Fatalf("direct[0] = %d, want allocated id %d", fs.inodes[idx].direct[0], id)
	}

	// Re-resolving the same slot in read mode should return the same id.
	again, err := fs.resolveBlock(idx, 0, modeRead)
	if err != nil || again != id {
		t.Fatalf("resolveBlock(read) after allocation = (%d, %v), want (%d, nil)", again, err, id)
	}
}

func TestResolveBlockIndirectTierAllocatesIndexBlock(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/a", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	parentIdx, name, err := fs.resolveParent([]string{"a"})
	if err != nil {
		t.Fatalf("resolveParent: %v", err)
	}
	db, err := fs.readDirectoryBlock(fs.inodes[parentIdx].direct[0])
	if err != nil {
		t.Fatalf("readDirectoryBlock: %v", err)
	}
	idx := int(db.records[db.find(name)].inodeIndex)

	// L = firstIndirectBlock is the first logical block served by the
	// single indirect pointer, not by direct[].
	id, err := fs.resolveBlock(idx, firstIndirectBlock, modeWrite)
	if err != nil {
		t.Fatalf("resolveBlock(write, indirect tier): %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a non-zero data block id")
	}
	if fs.inodes[idx].indirect == 0 {
		t.Fatalf("indirect index block was not allocated")
	}
}

func TestResolveBlockDoubleIndirectTierAllocatesIndexBlocks(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/a", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	parentIdx, name, err := fs.resolveParent([]string{"a"})
	if err != nil {
		t.Fatalf("resolveParent: %v", err)
	}
	db, err := fs.readDirectoryBlock(fs.inodes[parentIdx].direct[0])
	if err != nil {
		t.Fatalf("readDirectoryBlock: %v", err)
	}
	idx := int(db.records[db.find(name)].inodeIndex)

	// L = firstDoubleIndirectBlock is the first logical block served by
	// the double-indirect pointer, not by the single indirect tier.
	id, err := fs.resolveBlock(idx, firstDoubleIndirectBlock, modeWrite)
	if err != nil {
		t.Fatalf("resolveBlock(write, double-indirect tier): %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a non-zero data block id")
	}
	if fs.inodes[idx].doubleIndirct == 0 {
		t.Fatalf("double-indirect index block was not allocated")
	}

	// Re-resolving in read mode should return the same data block id.
	again, err := fs.resolveBlock(idx, firstDoubleIndirectBlock, modeRead)
	if err != nil || again != id {
		t.Fatalf("resolveBlock(read) after allocation = (%d, %v), want (%d, nil)", again, err, id)
	}

	// A slot deep into the second outer index entry exercises the
	// outer/inner split itself (outer=1, inner=0).
	deepL := firstDoubleIndirectBlock + indirectCapacity
	deepID, err := fs.resolveBlock(idx, deepL, modeWrite)
	if err != nil {
		t.Fatalf("resolveBlock(write, deep double-indirect slot): %v", err)
	}
	if deepID == 0 || deepID == id {
		t.Fatalf("expected a distinct non-zero data block id for the deep slot, got %d", deepID)
	}
}
