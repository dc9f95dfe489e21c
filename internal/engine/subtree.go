// subtree.go - subtree descriptor (spec.md §3)
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package engine

import "github.com/opencoff/chuid/internal/deq"

// noCursor is the sentinel meaning "start iterating this directory from
// the beginning".
const noCursor = -1

// Subtree represents a directory whose walk has not (yet) fully
// completed. Cursor counts how many directory entries have already been
// consumed; it is the "opaque directory-stream position" of spec.md §3,
// implemented as a skip-count rather than a raw telldir(3) token so that
// it survives a close/reopen across a handover (the design explicitly
// assumes a stable mount for the duration of the scan, so readdir order
// replaying the same prefix is safe).
type Subtree struct {
	Path   string
	Root   string // originating filesystem root, for diagnostics/logging
	Cursor int

	node deq.Node[Subtree]
}

// NewSubtree creates a fresh descriptor for 'path', rooted under 'root',
// ready to be walked from the beginning.
func NewSubtree(path, root string) *Subtree {
	return &Subtree{Path: path, Root: root, Cursor: noCursor}
}

func subtreeLink(s *Subtree) *deq.Node[Subtree] {
	return &s.node
}
