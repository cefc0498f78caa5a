package f16fs

import (
	"errors"
	"testing"
)

func TestResolveTokensEmptyReturnsRoot(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	idx, err := fs.resolveTokens(nil)
	if err != nil {
		t.Fatalf("resolveTokens(nil): %v", err)
	}
	if idx != rootInodeIndex {
		t.Fatalf("resolveTokens(nil) = %d, want root inode %d", idx, rootInodeIndex)
	}
}

func TestResolveTokensExistingLeafReturnsOwnInode(t *testing.T) {
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
	recIdx := db.find(name)
	if recIdx < 0 {
		t.Fatalf("record for %q not found", name)
	}
	wantInode := int(db.records[recIdx].inodeIndex)

	gotInode, err := fs.resolveTokens([]string{"a"})
	if err != nil {
		t.Fatalf("resolveTokens([a]): %v", err)
	}
	if gotInode != wantInode {
		t.Fatalf("resolveTokens([a]) = %d, want the leaf's own inode %d (not its parent's)", gotInode, wantInode)
	}
}

func TestResolveTokensThroughFileFails(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if err := fs.Create("/a", Regular); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fs.resolveTokens([]string{"a", "b"}); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("resolveTokens through a file: err = %v, want ErrWrongKind", err)
	}
}

func TestResolveTokensMissingComponentFails(t *testing.T) {
	fs, _ := mustFormat(t)
	defer fs.Unmount()

	if _, err := fs.resolveTokens([]string{"nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("resolveTokens(missing): err = %v, want ErrNotFound", err)
	}
}
