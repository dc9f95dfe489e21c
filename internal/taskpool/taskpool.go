// taskpool.go - generic worker pool, adapted from go-fio's WorkPool
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

// Package taskpool is chuid's generalization of the teacher's
// WorkPool[Work]: a fixed set of goroutines draining a work channel,
// reporting errors through a harvester goroutine, joined into one error
// on Wait(). The traversal engine's own dispatcher needs bespoke
// two-pool semantics WorkPool can't express (see internal/engine), but
// this shape is still exactly right for chuid's config loader, which
// parses its three independent input files concurrently.
package taskpool

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Pool runs a fixed number of workers, each invoking 'fp' once per
// submitted unit of work.
type Pool[Work any] struct {
	stopped atomic.Bool
	wg      sync.WaitGroup
	ch      chan Work

	ech  chan error
	ewg  sync.WaitGroup
	errs []error
}

// New creates a pool of 'n' workers (at least 1) invoking 'fp'.
func New[Work any](n int, fp func(i int, w Work) error) *Pool[Work] {
	if n < 1 {
		n = 1
	}

	p := &Pool[Work]{
		ch:  make(chan Work, n),
		ech: make(chan error, 1),
	}

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer p.wg.Done()
			for w := range p.ch {
				if err := fp(i, w); err != nil {
					p.ech <- err
				}
			}
		}(i)
	}

	p.ewg.Add(1)
	go func() {
		defer p.ewg.Done()
		for e := range p.ech {
			p.errs = append(p.errs, e)
		}
	}()

	return p
}

// Submit enqueues one unit of work. Panics if called after Close.
func (p *Pool[Work]) Submit(w Work) {
	if p.stopped.Load() {
		panic("taskpool: submit after close")
	}
	p.ch <- w
}

// Close signals that no more work is forthcoming.
func (p *Pool[Work]) Close() {
	if p.stopped.Swap(true) {
		panic("taskpool: closed twice")
	}
	close(p.ch)
}

// Wait blocks until all workers finish and returns the joined errors, if
// any.
func (p *Pool[Work]) Wait() error {
	p.wg.Wait()
	close(p.ech)
	p.ewg.Wait()
	if len(p.errs) > 0 {
		return errors.Join(p.errs...)
	}
	return nil
}
