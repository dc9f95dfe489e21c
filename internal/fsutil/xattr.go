// xattr.go - read-only extended attribute support
//
// (c) 2023- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fsutil

import (
	"github.com/pkg/xattr"
)

// Xattr is a collection of all the extended attributes of a given file.
// chuid never mutates xattr; this module only ever reads them, to
// annotate verbose ownership-change log lines and dry-run report lines.
type Xattr map[string]string

// LgetXattr returns all the extended attributes of a file. If 'nm' is a
// symlink, LgetXattr returns the attributes of the link itself, not its
// target.
func LgetXattr(nm string) (Xattr, error) {
	return fetch(nm, xattr.LList, xattr.LGet)
}

func fetch(nm string, list func(nm string) ([]string, error),
	get func(nm string, k string) ([]byte, error)) (Xattr, error) {
	keys, err := list(nm)
	if err != nil {
		return nil, err
	}

	x := make(Xattr)
	for _, k := range keys {
		b, err := get(nm, k)
		if err != nil {
			return nil, err
		}
		x[k] = string(b)
	}
	return x, nil
}
