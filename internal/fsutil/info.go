// info.go - normalized file metadata used by the traversal engine
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package fsutil wraps lstat(2) into a normalized record carrying
// just the fields the traversal engine and ownership-change logic need:
// device, inode, mode, current owner and link count.
package fsutil

import (
	"io/fs"
	"syscall"
)

// Info is a normalized stat(2) result. It deliberately carries a lot less
// than a full os.FileInfo: the engine only ever needs identity (dev/ino),
// classification (mode) and ownership (uid/gid/nlink).
type Info struct {
	Ino   uint64
	Dev   uint64
	Nlink uint64

	Mod fs.FileMode
	Uid uint32
	Gid uint32

	path  string
	xattr Xattr
}

// Lstat stats 'nm' without following a trailing symlink.
func Lstat(nm string) (*Info, error) {
	var ii Info
	if err := Lstatm(nm, &ii); err != nil {
		return nil, err
	}
	return &ii, nil
}

// Lstatm is like Lstat but uses caller supplied memory, avoiding an
// allocation per directory entry during a hot traversal.
func Lstatm(nm string, fi *Info) error {
	var st syscall.Stat_t
	if err := syscall.Lstat(nm, &st); err != nil {
		return err
	}
	makeInfo(fi, nm, &st)
	return nil
}

// Path returns the path this Info was stat'd from.
func (ii *Info) Path() string {
	return ii.path
}

// IsDir returns true if this entry is a directory.
func (ii *Info) IsDir() bool {
	return ii.Mod.IsDir()
}

// IsRegular returns true if this entry is a regular file.
func (ii *Info) IsRegular() bool {
	return ii.Mod.IsRegular()
}

// IsSymlink returns true if this entry is a symbolic link.
func (ii *Info) IsSymlink() bool {
	return ii.Mod&fs.ModeSymlink != 0
}

// Xattr lazily fetches and caches the extended attributes of this entry.
// Only called when an ownership change is logged verbosely (-v) or
// reported in dry-run mode; classification never touches xattr at all.
func (ii *Info) Xattr() (Xattr, error) {
	if ii.xattr != nil {
		return ii.xattr, nil
	}
	x, err := LgetXattr(ii.path)
	if err != nil {
		return nil, err
	}
	ii.xattr = x
	return x, nil
}
