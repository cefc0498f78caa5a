// Package f16fs implements a single-user, single-threaded hierarchical
// file system over a fixed-geometry block store: 512-byte blocks, a
// 256-entry inode table, and an inode design with direct, indirect,
// and double-indirect block pointers.
//
// This is not a replacement for an operating system's own filesystem
// driver; it is a library that format/mount/unmount a backing file the
// way one would format and mount a disk image, and then exposes a
// path-addressed namespace of regular files and directories on top of
// it.
//
// Basic usage:
//
//	fs, err := f16fs.Format("/tmp/vol.img")
//	if err != nil {
//		// handle error
//	}
//	defer fs.Unmount()
//
//	if err := fs.Create("/hello", f16fs.Regular); err != nil {
//		// handle error
//	}
//	fd, err := fs.Open("/hello")
//	if err != nil {
//		// handle error
//	}
//	defer fs.Close(fd)
//	fs.Write(fd, []byte("hello"))
package f16fs
