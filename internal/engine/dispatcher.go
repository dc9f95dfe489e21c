// dispatcher.go - global pool coordination (spec.md §4.4, §4.6)
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

// Package engine implements the parallel traversal core described by
// spec.md: the DEQ-backed global fast/slow pools, the dispatcher's
// weighted extraction and distributed-termination protocol, and the
// per-worker walk/handover logic.
//
// The dispatcher generalizes the teacher's WorkPool (see workpool.go's
// header comment in the teacher repo): WorkPool is a plain channel-fed
// pool of homogeneous work, good enough for a flat list of jobs, but it
// cannot express the two-pool weighted interleave and idleness-driven
// handover this spec requires. So the dispatcher is hand-rolled around
// a sync.Mutex/sync.Cond pair, in the same spirit (a struct guarding a
// channel-like resource, a busy WaitGroup-ish counter, a single Wait
// point) but with the extra state spec.md §3 and §4.4 demand.
package engine

import (
	"math"
	"sync"
)

// Dispatcher is the process-wide coordination point described in
// spec.md §3 "Dispatcher state". There is exactly one instance per run,
// constructed before any worker starts and shared by reference.
type Dispatcher struct {
	mu   sync.Mutex
	cond *sync.Cond

	fast *DEQ
	slow *DEQ

	busy       int
	workers    int
	done       bool
	fastBudget int

	// SinglePool disables the fast/slow split (spec.md §6 "-o"); all
	// extraction and handover targets 'fast' only and speeds are never
	// consulted.
	SinglePool bool

	// Stack selects depth-first private-DEQ order (push/splice at the
	// front) vs breadth-first (push/splice at the back); spec.md §6
	// "-q" flips this to breadth-first.
	Stack bool

	// BusyThreshold is the idleness-probe threshold from spec.md §6
	// "-b", real in (0, 1].
	BusyThreshold float64
}

// NewDispatcher builds a dispatcher for a pool of 'workers' worker
// goroutines.
func NewDispatcher(workers int, singlePool, stack bool, busyThreshold float64) *Dispatcher {
	d := &Dispatcher{
		fast:          NewDEQ(),
		slow:          NewDEQ(),
		workers:       workers,
		SinglePool:    singlePool,
		Stack:         stack,
		BusyThreshold: busyThreshold,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Seed pushes the initial set of roots into the fast pool before any
// worker starts pulling. Roots are appended in the order given,
// regardless of Stack mode; no speed observation exists yet.
func (d *Dispatcher) Seed(roots []*Subtree) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range roots {
		d.fast.PushBack(r)
	}
}

// Acquire implements the worker outer loop's steps 1-3 (spec.md §4.3):
// block until a descriptor is available or the scan is complete, pull
// one out under the mutex, and mark this worker busy before releasing
// it. The returned bool is false once the dispatcher has declared
// completion -- the caller must exit its outer loop in that case.
func (d *Dispatcher) Acquire() (*Subtree, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		if d.done {
			return nil, false
		}
		if d.fast.Len() == 0 && d.slow.Len() == 0 {
			d.cond.Wait()
			continue
		}
		r := d.extractLocked()
		if r == nil {
			// another worker raced us to the only available
			// descriptor; go back to waiting.
			continue
		}
		d.busy++
		return r, true
	}
}

// extractLocked implements the weighted fast/slow interleave of
// spec.md §4.4. Caller must hold d.mu.
func (d *Dispatcher) extractLocked() *Subtree {
	var r *Subtree

	if d.SinglePool {
		r = d.fast.PopFront()
	} else if d.fastBudget > 0 {
		r = d.fast.PopFront()
		if r != nil {
			d.fastBudget--
		} else if r = d.slow.PopFront(); r != nil {
			d.fastBudget = speedRatio(d.fast.Speed(), d.slow.Speed())
		}
	} else {
		r = d.slow.PopFront()
		if r != nil {
			d.fastBudget = speedRatio(d.fast.Speed(), d.slow.Speed())
		} else {
			r = d.fast.PopFront()
			// fastBudget stays at 0
		}
	}

	if r != nil && !d.SinglePool {
		d.rebalanceSpeedsLocked()
	}
	return r
}

// rebalanceSpeedsLocked applies spec.md §4.4's post-extraction rule: if
// both pools are now empty, reset both speeds to zero; if exactly one
// emptied, copy the other's speed into it so future handovers compare
// against a meaningful baseline.
func (d *Dispatcher) rebalanceSpeedsLocked() {
	fe, se := d.fast.Len() == 0, d.slow.Len() == 0
	switch {
	case fe && se:
		d.fast.SetSpeed(0)
		d.slow.SetSpeed(0)
	case fe && !se:
		d.fast.SetSpeed(d.slow.Speed())
	case se && !fe:
		d.slow.SetSpeed(d.fast.Speed())
	}
}

// speedRatio computes ceil(fastSpeed/slowSpeed), defined as 1 when
// slowSpeed is zero to avoid dividing by zero (spec.md §4.4, §8).
func speedRatio(fastSpeed, slowSpeed float64) int {
	if slowSpeed == 0 {
		return 1
	}
	n := int(math.Ceil(fastSpeed / slowSpeed))
	if n < 1 {
		n = 1
	}
	return n
}

// Release implements the worker outer loop's step 5 (spec.md §4.3):
// decrement busy-count and, if that was the last busy worker and both
// pools are empty, declare completion (spec.md §4.6).
func (d *Dispatcher) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy--
	if d.busy == 0 && d.fast.Len() == 0 && d.slow.Len() == 0 {
		d.done = true
		d.cond.Broadcast()
	}
}

// BusyFraction is the unsynchronized idleness probe from spec.md §4.3
// step 3.e and §5: a deliberately racy read, whose staleness is bounded
// by one walk step and whose correctness does not depend on an exact
// value.
func (d *Dispatcher) BusyFraction() float64 {
	return float64(d.busy) / float64(d.workers)
}

// Handover implements spec.md §4.3's handover step 3: splice a worker's
// backlog (everything but the one descriptor it keeps) into whichever
// global pool the observed speed indicates, updating that pool's speed,
// then wake any workers blocked in Acquire.
func (d *Dispatcher) Handover(backlog *DEQ, speed float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := backlog.Len()
	if n == 0 {
		return
	}

	target := d.fast
	if !d.SinglePool {
		avg := (d.fast.Speed() + d.slow.Speed()) / 2
		if speed >= avg {
			target = d.fast
		} else {
			target = d.slow
		}
		target.SetSpeed(speed)
	}

	if d.Stack {
		target.SpliceFront(backlog)
	} else {
		target.SpliceBack(backlog)
	}

	// Broadcast wakes every waiter; each re-checks the predicate in
	// Acquire's loop, so this satisfies the "at least as many wakeups
	// as newly available descriptors" contract without needing to
	// count signals.
	d.cond.Broadcast()
}

// SetDoneForSignal is called by the signal handler (spec.md §5
// Cancellation): it forces completion the same way a natural
// busy==0-and-pools-empty observation would, so blocked workers wake
// and exit their outer loop.
func (d *Dispatcher) SetDoneForSignal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = true
	d.cond.Broadcast()
}

// Snapshot is used by the (unsynchronized, per spec.md §5) progress
// reporter.
type Snapshot struct {
	Busy      int
	Workers   int
	FastLen   int
	SlowLen   int
	FastSpeed float64
	SlowSpeed float64
}

// Snapshot reads dispatcher counters without synchronization, matching
// the design's explicit allowance for a reporter thread to do so.
func (d *Dispatcher) Snapshot() Snapshot {
	return Snapshot{
		Busy:      d.busy,
		Workers:   d.workers,
		FastLen:   d.fast.Len(),
		SlowLen:   d.slow.Len(),
		FastSpeed: d.fast.Speed(),
		SlowSpeed: d.slow.Speed(),
	}
}
