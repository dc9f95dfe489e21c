// worker_test.go -- resume-cursor boundary (spec.md §9)
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package engine

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opencoff/chuid/internal/config"
	"github.com/opencoff/chuid/internal/hardlink"
)

// TestHandoverResumeCursorAfterLastProcessedEntry drives processOne
// directly with a dispatcher whose idleness probe is permanently tripped
// (busy-count held below threshold), so handover fires after the very
// first directory entry. It checks spec.md §9's resume-cursor boundary:
// re-extracting the returned descriptor must resume strictly after the
// last entry actually processed, never before (and never skipping one).
func TestHandoverResumeCursorAfterLastProcessedEntry(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %s", err)
		}
	}
	must(os.WriteFile(filepath.Join(root, "a"), []byte("1"), 0644))
	must(os.WriteFile(filepath.Join(root, "b"), []byte("2"), 0644))
	must(os.WriteFile(filepath.Join(root, "c"), []byte("3"), 0644))

	log := testLogger(t)

	d := NewDispatcher(2, false, true, 0.9)
	d.busy = 1 // 1/2 == 0.5 < 0.9: idleness probe trips on every entry

	owner := &OwnerChanger{
		UIDMap: &config.IDMap{},
		GIDMap: &config.IDMap{},
		Log:    log,
		Out:    io.Discard,
	}
	wk := &Worker{
		ID:         0,
		Dispatcher: d,
		Hardlinks:  hardlink.New(),
		Exclude:    &config.ExclusionFilter{},
		Owner:      owner,
		Log:        log,
		Stats:      &Stats{},
	}

	sub := NewSubtree(root, root)
	private := NewDEQ()
	wk.processOne(sub, private, time.Now(), new(int))

	assert(private.Len() == 1, "expected exactly one descriptor kept back, got %d", private.Len())

	kept := private.PopFront()
	assert(kept.Path == root, "expected the same root descriptor back, got %q", kept.Path)
	assert(kept.Cursor == 1, "resume cursor must point just past the one processed entry, got %d", kept.Cursor)

	files, _, _, _ := wk.Stats.Snapshot()
	assert(files == 1, "expected exactly 1 entry classified before handover, got %d", files)
}
