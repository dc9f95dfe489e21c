// chown.go - link-preserving ownership changes
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

//go:build unix

package fsutil

import (
	"fmt"
	"syscall"
)

// Lchown changes uid and/or gid of 'nm' without following a trailing
// symlink. Pass -1 for either id to leave it unchanged, matching spec's
// requirement that UID and GID changes be independent of one another.
func Lchown(nm string, uid, gid int) error {
	if err := syscall.Lchown(nm, uid, gid); err != nil {
		return fmt.Errorf("lchown: %w", err)
	}
	return nil
}
