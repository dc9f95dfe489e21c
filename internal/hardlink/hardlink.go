// hardlink.go -- tracking multiply-linked inodes across workers
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

// Package hardlink implements the dedup table from spec.md §4.2: a
// concurrency-safe set of (device, inode) pairs with a single
// test-and-insert operation, so that a multiply-linked file's ownership
// is changed at most once no matter which worker (or how many) visit its
// various names.
package hardlink

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// Result is returned by Mark.
type Result int

const (
	// Fresh means this (dev, ino) pair had not been seen before; the
	// caller owns the one-and-only ownership change for this inode.
	Fresh Result = iota
	// Seen means some other call already marked this pair; the caller
	// must not repeat the ownership change.
	Seen
)

// Table is the (dev, ino) dedup set. The zero value is not usable; use
// New. A Table grows geometrically under the hood (xsync.MapOf resizes
// its internal buckets), which satisfies spec.md's requirement that
// growth not invalidate concurrent Mark calls from other workers.
type Table struct {
	m *xsync.MapOf[string, struct{}]
}

// New returns an empty hardlink dedup table.
func New() *Table {
	return &Table{m: xsync.NewMapOf[string, struct{}]()}
}

// Mark atomically test-and-inserts the (dev, ino) pair. It returns Fresh
// the first time a given pair is marked, and Seen on every subsequent
// call with the same pair.
func (t *Table) Mark(dev, ino uint64) Result {
	k := key(dev, ino)
	if _, loaded := t.m.LoadOrStore(k, struct{}{}); loaded {
		return Seen
	}
	return Fresh
}

func key(dev, ino uint64) string {
	return fmt.Sprintf("%d:%d", dev, ino)
}
