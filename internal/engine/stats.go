// stats.go - diagnostic counters (spec.md §4.3 "Increment ... counter")
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package engine

import "sync/atomic"

// Stats accumulates the per-entry-type diagnostic counters spec.md §4.3
// mentions alongside classification ("Increment file counter", etc).
// They are purely observational -- the progress reporter and the final
// summary read them -- and never gate traversal behavior.
type Stats struct {
	Files  int64
	Dirs   int64
	Links  int64
	Others int64
}

func (s *Stats) addFile()  { atomic.AddInt64(&s.Files, 1) }
func (s *Stats) addDir()   { atomic.AddInt64(&s.Dirs, 1) }
func (s *Stats) addLink()  { atomic.AddInt64(&s.Links, 1) }
func (s *Stats) addOther() { atomic.AddInt64(&s.Others, 1) }

// Snapshot returns a copy of the counters. Each counter is loaded
// atomically, but the four loads are not taken together under a lock, so
// the copy need not be mutually consistent while workers are running
// (spec.md §5 sanctions unsynchronized reporter reads).
func (s *Stats) Snapshot() (files, dirs, links, others int64) {
	return atomic.LoadInt64(&s.Files), atomic.LoadInt64(&s.Dirs),
		atomic.LoadInt64(&s.Links), atomic.LoadInt64(&s.Others)
}
