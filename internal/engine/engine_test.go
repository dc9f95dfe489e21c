// engine_test.go -- end-to-end traversal engine tests
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencoff/chuid/internal/chuidlog"
	"github.com/opencoff/chuid/internal/config"
	"github.com/opencoff/chuid/internal/fsutil"
)

func newAsserter(t *testing.T) func(cond bool, format string, args ...interface{}) {
	t.Helper()
	return func(cond bool, format string, args ...interface{}) {
		if !cond {
			t.Fatalf(format, args...)
		}
	}
}

func testLogger(t *testing.T) *chuidlog.Logger {
	t.Helper()
	log, err := chuidlog.New(t.TempDir(), true)
	if err != nil {
		t.Fatalf("chuidlog.New: %s", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func mkTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("mkTree: %s", err)
		}
	}

	must(os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	must(os.WriteFile(filepath.Join(root, "a", "f1"), []byte("x"), 0644))
	must(os.WriteFile(filepath.Join(root, "a", "b", "f2"), []byte("y"), 0644))
	must(os.Symlink(filepath.Join(root, "a", "f1"), filepath.Join(root, "a", "link1")))
	return root
}

func TestEmptyMappingVisitsAllChangesNone(t *testing.T) {
	assert := newAsserter(t)

	root := mkTree(t)
	log := testLogger(t)

	cfg := &config.Config{
		Roots:         []string{root},
		UIDMap:        &config.IDMap{},
		GIDMap:        &config.IDMap{},
		Exclude:       &config.ExclusionFilter{},
		Workers:       2,
		BusyThreshold: 0.9,
		DryRun:        true,
	}

	var out bytes.Buffer
	stats := Run(context.Background(), cfg, log, &out)

	files, dirs, links, _ := stats.Snapshot()
	assert(files == 2, "expected 2 regular files visited, got %d", files)
	assert(dirs == 2, "expected 2 directories visited (a, a/b), got %d", dirs)
	assert(links == 1, "expected 1 symlink visited, got %d", links)
	assert(out.Len() == 0, "empty mapping must report zero intended changes, got: %q", out.String())
}

func TestDryRunReportsOneLinePerChangedEntry(t *testing.T) {
	assert := newAsserter(t)

	root := mkTree(t)
	log := testLogger(t)

	// Build a mapping that remaps the current process's uid -- every
	// entry created by mkTree is owned by it, so every entry should
	// report an intended change.
	me := uint32(os.Getuid())
	mapReader := strings.NewReader(fmt.Sprintf("u:%d %d\n", me, me+1))
	uidMap, gidMap, err := config.LoadMappings(mapReader, log)
	assert(err == nil, "unexpected error: %s", err)

	cfg := &config.Config{
		Roots:         []string{root},
		UIDMap:        uidMap,
		GIDMap:        gidMap,
		Exclude:       &config.ExclusionFilter{},
		Workers:       2,
		BusyThreshold: 0.9,
		DryRun:        true,
	}

	var out bytes.Buffer
	stats := Run(context.Background(), cfg, log, &out)

	files, dirs, links, _ := stats.Snapshot()
	total := files + dirs + links
	assert(total == 5, "expected 5 total entries (2 files + 2 dirs + 1 link), got %d", total)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert(int64(len(lines)) == total, "expected %d dry-run lines, got %d: %q", total, len(lines), out.String())
}

func TestHardlinkedFileChangedExactlyOnce(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	log := testLogger(t)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %s", err)
		}
	}

	f1 := filepath.Join(root, "x")
	f2 := filepath.Join(root, "y")
	must(os.WriteFile(f1, []byte("z"), 0644))
	must(os.Link(f1, f2))

	me := uint32(os.Getuid())
	mapReader := strings.NewReader(fmt.Sprintf("u:%d %d\n", me, me+1))
	uidMap, gidMap, err := config.LoadMappings(mapReader, log)
	assert(err == nil, "unexpected error: %s", err)

	cfg := &config.Config{
		Roots:         []string{root},
		UIDMap:        uidMap,
		GIDMap:        gidMap,
		Exclude:       &config.ExclusionFilter{},
		Workers:       4,
		BusyThreshold: 0.9,
		DryRun:        true,
	}

	var out bytes.Buffer
	stats := Run(context.Background(), cfg, log, &out)

	files, _, _, _ := stats.Snapshot()
	assert(files == 2, "both hardlinked names should be visited, got %d", files)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert(len(lines) == 1, "expected exactly 1 dry-run change line for the shared inode, got %d: %q", len(lines), out.String())
}

// TestSymlinkOwnershipChangeDoesNotFollowTarget verifies spec.md §8
// property 2: changing a symlink's ownership uses a link-preserving call
// and never touches the ownership of whatever the link points to. The
// target lives outside the scanned root, so the only way its uid could
// change is if the symlink's chown incorrectly followed the link.
func TestSymlinkOwnershipChangeDoesNotFollowTarget(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	targetDir := t.TempDir()
	log := testLogger(t)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %s", err)
		}
	}

	target := filepath.Join(targetDir, "target")
	link := filepath.Join(root, "link")
	must(os.WriteFile(target, []byte("z"), 0644))
	must(os.Symlink(target, link))

	me := uint32(os.Getuid())
	mapReader := strings.NewReader(fmt.Sprintf("u:%d %d\n", me, me+1))
	uidMap, gidMap, err := config.LoadMappings(mapReader, log)
	assert(err == nil, "unexpected error: %s", err)

	cfg := &config.Config{
		Roots:         []string{root},
		UIDMap:        uidMap,
		GIDMap:        gidMap,
		Exclude:       &config.ExclusionFilter{},
		Workers:       2,
		BusyThreshold: 0.9,
		DryRun:        false,
	}

	var out bytes.Buffer
	Run(context.Background(), cfg, log, &out)

	linkInfo, err := fsutil.Lstat(link)
	assert(err == nil, "lstat link: %s", err)
	assert(linkInfo.Uid == me+1, "expected the symlink's own uid changed to %d, got %d", me+1, linkInfo.Uid)

	targetInfo, err := fsutil.Lstat(target)
	assert(err == nil, "lstat target: %s", err)
	assert(targetInfo.Uid == me, "target uid must be untouched by the symlink's ownership change, got %d (was %d)", targetInfo.Uid, me)
}

// TestExclusionFilterSkipsMatchedEntries verifies spec.md §8 scenario 3:
// an excluded basename is never stat'd, classified, or reported as an
// intended change, while unexcluded siblings still are.
func TestExclusionFilterSkipsMatchedEntries(t *testing.T) {
	assert := newAsserter(t)

	root := t.TempDir()
	log := testLogger(t)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %s", err)
		}
	}
	must(os.WriteFile(filepath.Join(root, "keep.txt"), []byte("k"), 0644))
	must(os.WriteFile(filepath.Join(root, "skip.txt"), []byte("s"), 0644))

	me := uint32(os.Getuid())
	mapReader := strings.NewReader(fmt.Sprintf("u:%d %d\n", me, me+1))
	uidMap, gidMap, err := config.LoadMappings(mapReader, log)
	assert(err == nil, "unexpected error: %s", err)

	exclude, err := config.LoadExclusions(strings.NewReader("skip.txt\n"))
	assert(err == nil, "unexpected error: %s", err)

	cfg := &config.Config{
		Roots:         []string{root},
		UIDMap:        uidMap,
		GIDMap:        gidMap,
		Exclude:       exclude,
		Workers:       2,
		BusyThreshold: 0.9,
		DryRun:        true,
	}

	var out bytes.Buffer
	stats := Run(context.Background(), cfg, log, &out)

	files, _, _, _ := stats.Snapshot()
	assert(files == 1, "excluded entry must never be classified, expected 1 file visited, got %d", files)

	assert(strings.Contains(out.String(), "keep.txt"), "expected a dry-run line for keep.txt, got: %q", out.String())
	assert(!strings.Contains(out.String(), "skip.txt"), "excluded entry must never be reported, got: %q", out.String())
}
