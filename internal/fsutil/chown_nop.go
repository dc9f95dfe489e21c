// chown_nop.go - ownership changes for unsupported systems
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

//go:build !unix

package fsutil

import "fmt"

func Lchown(nm string, uid, gid int) error {
	return fmt.Errorf("lchown: not supported")
}
