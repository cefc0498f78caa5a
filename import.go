package f16fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// excludedPaths are never copied in, mirroring host-filesystem noise
// a real import would want to skip.
var excludedPaths = map[string]bool{
	"lost+found": true,
	".DS_Store":  true,
}

const importCopyChunk = 64 * 1024

// Import walks fsys and recreates its directory/file structure inside
// the mounted volume, rooted at "/". Symlinks are skipped (symbolic
// links are out of scope); no timestamps are carried, since the inode
// has no timestamp fields to hold them.
func Import(fsys fs.FS, volume *FS) error {
	if volume == nil {
		return ErrInvalidArgument
	}
	return importDir(fsys, volume, ".", "/")
}

func importDir(fsys fs.FS, volume *FS, srcDir, dstDir string) error {
	entries, err := fs.ReadDir(fsys, srcDir)
	if err != nil {
		return fmt.Errorf("f16fs: import: read dir %s: %w", srcDir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if excludedPaths[name] {
			continue
		}

		srcPath := name
		if srcDir != "." {
			srcPath = path.Join(srcDir, name)
		}
		dstPath := path.Join(dstDir, name)

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("f16fs: import: stat %s: %w", srcPath, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if entry.IsDir() {
			if err := volume.Create(dstPath, Directory); err != nil {
				return fmt.Errorf("f16fs: import: create dir %s: %w", dstPath, err)
			}
			if err := importDir(fsys, volume, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if err := importFile(fsys, volume, srcPath, dstPath); err != nil {
			return fmt.Errorf("f16fs: import: copy file %s: %w", srcPath, err)
		}
	}
	return nil
}

func importFile(fsys fs.FS, volume *FS, srcPath, dstPath string) error {
	if err := volume.Create(dstPath, Regular); err != nil {
		return err
	}
	src, err := fsys.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	fd, err := volume.Open(dstPath)
	if err != nil {
		return err
	}
	defer volume.Close(fd)

	buf := make([]byte, importCopyChunk)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := volume.Write(fd, buf[:n]); writeErr != nil {
				return writeErr
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	return nil
}
