// worker.go - traversal logic (spec.md §4.3)
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

import (
	"os"
	"path/filepath"
	"time"

	"github.com/opencoff/chuid/internal/chuiderr"
	"github.com/opencoff/chuid/internal/chuidlog"
	"github.com/opencoff/chuid/internal/config"
	"github.com/opencoff/chuid/internal/fsutil"
	"github.com/opencoff/chuid/internal/hardlink"
)

// Worker owns a private DEQ and repeatedly pulls subtree roots from the
// dispatcher's global pools (spec.md §4.3). A Worker must never hold the
// dispatcher's mutex while performing a filesystem operation -- every
// method below that touches the filesystem does so outside of
// Dispatcher.Acquire/Release/Handover's locked sections.
type Worker struct {
	ID         int
	Dispatcher *Dispatcher
	Hardlinks  *hardlink.Table
	Exclude    *config.ExclusionFilter
	Owner      *OwnerChanger
	Log        *chuidlog.Logger
	Stats      *Stats
}

// Run is the outer loop from spec.md §4.3: acquire, walk, release, until
// the dispatcher declares completion.
func (wk *Worker) Run() {
	for {
		root, ok := wk.Dispatcher.Acquire()
		if !ok {
			return
		}
		wk.walk(root)
		wk.Dispatcher.Release()
	}
}

// walk processes one subtree root to exhaustion, spilling backlog to
// the global pools via handover whenever the idleness probe fires.
func (wk *Worker) walk(root *Subtree) {
	anchor := time.Now()
	dirsScanned := 0

	private := NewDEQ()
	private.PushBack(root)

	for private.Len() > 0 {
		w := private.PopFront()
		wk.processOne(w, private, anchor, &dirsScanned)
	}
}

// processOne opens w's directory, iterates its entries from w.Cursor
// onward, and either exhausts it (discarding w) or breaks early via
// handover when the idleness probe fires (spec.md §4.3 steps 1-4).
//
// The resume cursor is implemented as an index into the directory's
// full name listing (read once via Readdirnames(-1), in the same style
// as the teacher's walk.readDir helper) rather than a raw telldir(3)
// token: both are "opaque positions" as far as the spec is concerned,
// and an index survives a close/reopen across a handover as long as the
// tree is stable, which spec.md's Design Notes already assume.
func (wk *Worker) processOne(w *Subtree, private *DEQ, anchor time.Time, dirsScanned *int) {
	fd, err := os.Open(w.Path)
	if err != nil {
		wk.Log.Warningf("%s", &chuiderr.OpError{Op: "open", Path: w.Path, Err: err})
		return
	}

	names, err := fd.Readdirnames(-1)
	if err != nil {
		fd.Close()
		wk.Log.Warningf("%s", &chuiderr.OpError{Op: "readdir", Path: w.Path, Err: err})
		return
	}

	start := w.Cursor
	if start < 0 {
		start = 0
	}

	for i := start; i < len(names); i++ {
		name := names[i]
		w.Cursor = i + 1

		if wk.Exclude.Match(name) {
			continue
		}

		child := filepath.Join(w.Path, name)
		fi, err := fsutil.Lstat(child)
		if err != nil {
			wk.Log.Warningf("%s", &chuiderr.OpError{Op: "lstat", Path: child, Err: err})
			continue
		}

		wk.classify(fi, w, private)

		if wk.Dispatcher.BusyFraction() < wk.Dispatcher.BusyThreshold {
			moreRemain := i+1 < len(names)
			fd.Close()
			wk.handover(w, moreRemain, private, anchor, *dirsScanned)
			return
		}

		if fi.IsDir() {
			*dirsScanned++
		}
	}

	fd.Close()
}

// classify implements spec.md §4.3 step 3.d: apply ownership change per
// entry type, recursing into directories and deduplicating hardlinks.
func (wk *Worker) classify(fi *fsutil.Info, w *Subtree, private *DEQ) {
	switch {
	case fi.IsDir():
		wk.Owner.Apply(fi)
		child := NewSubtree(fi.Path(), w.Root)
		if wk.Dispatcher.Stack {
			private.PushFront(child)
		} else {
			private.PushBack(child)
		}
		wk.Stats.addDir()

	case fi.IsSymlink():
		// Lchown-family calls never follow a trailing symlink, so
		// this changes the link itself, not its target.
		wk.Owner.Apply(fi)
		wk.Stats.addLink()

	case fi.IsRegular():
		if fi.Nlink > 1 {
			if wk.Hardlinks.Mark(fi.Dev, fi.Ino) == hardlink.Fresh {
				wk.Owner.Apply(fi)
			}
		} else {
			wk.Owner.Apply(fi)
		}
		wk.Stats.addFile()

	default:
		wk.Stats.addOther()
	}
}

// handover implements the spec.md §4.3 "Handover" subsection: record
// the resume cursor, compute an observed speed, detach the one
// descriptor this worker keeps, and splice the rest to the dispatcher.
func (wk *Worker) handover(w *Subtree, moreRemain bool, private *DEQ, anchor time.Time, dirsScanned int) {
	if moreRemain {
		private.PushBack(w)
	}

	var speed float64
	if private.Len() > 1 {
		elapsed := time.Since(anchor)
		if elapsed <= 0 {
			speed = float64(dirsScanned)
		} else {
			speed = float64(dirsScanned) / elapsed.Seconds()
		}
	}

	kept := private.PopFront()
	if private.Len() > 0 {
		wk.Dispatcher.Handover(private, speed)
	}
	if kept != nil {
		private.PushBack(kept)
	}
}
