package f16fs

// resolveTokens walks tokens from the root directory, returning the
// inode index of the final path component.
//
// Quirk, preserved deliberately: for an empty token sequence this
// returns the root inode; for a token sequence naming an existing
// leaf (file or directory), it returns that leaf's OWN inode, not its
// parent's. Namespace operations branch on this: create, open, remove
// and move split off the basename themselves and call resolveTokens on
// the parent slice, while list uses the full slice and expects the
// leaf's own inode back.
func (fs *FS) resolveTokens(tokens []string) (int, error) {
	cur := rootInodeIndex
	for i, tok := range tokens {
		in := &fs.inodes[cur]
		if in.fileType != Directory {
			return 0, ErrWrongKind
		}
		db, err := fs.readDirectoryBlock(in.direct[0])
		if err != nil {
			return 0, err
		}
		idx := db.find(tok)
		if idx < 0 {
			return 0, ErrNotFound
		}
		rec := db.records[idx]
		if rec.recordType != Directory && i != len(tokens)-1 {
			return 0, ErrWrongKind
		}
		cur = int(rec.inodeIndex)
	}
	return cur, nil
}

// resolveParent splits tokens into its parent directory slice and
// final name, resolves the parent inode, and verifies it is a
// directory. Used by operations (create, open, remove) that need to act on
// the enclosing directory rather than the named entry itself.
func (fs *FS) resolveParent(tokens []string) (parentInode int, name string, err error) {
	if len(tokens) == 0 {
		return 0, "", ErrInvalidArgument
	}
	parentTokens, name := basename(tokens)
	parentInode, err = fs.resolveTokens(parentTokens)
	if err != nil {
		return 0, "", err
	}
	if fs.inodes[parentInode].fileType != Directory {
		return 0, "", ErrWrongKind
	}
	return parentInode, name, nil
}
