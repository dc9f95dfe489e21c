// engine.go - top-level wiring for the traversal engine
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
	"context"
	"io"
	"sync"

	"github.com/opencoff/chuid/internal/chuidlog"
	"github.com/opencoff/chuid/internal/config"
	"github.com/opencoff/chuid/internal/hardlink"
)

// Run wires together the dispatcher, the hardlink table, the ownership
// changer and cfg.Workers worker goroutines, seeds the dispatcher with
// cfg.Roots, and blocks until every worker has returned (spec.md §4.6
// termination). ctx is watched in a side goroutine so that a caller
// cancellation (driven, in main.go, by SIGINT/SIGTERM/SIGQUIT per
// spec.md §5) forces completion the same way a signal handler would.
func Run(ctx context.Context, cfg *config.Config, log *chuidlog.Logger, out io.Writer) *Stats {
	disp := NewDispatcher(cfg.Workers, cfg.SinglePool, !cfg.BreadthFirst, cfg.BusyThreshold)

	roots := make([]*Subtree, 0, len(cfg.Roots))
	for _, r := range cfg.Roots {
		roots = append(roots, NewSubtree(r, r))
	}
	disp.Seed(roots)

	stats := &Stats{}
	owner := &OwnerChanger{
		UIDMap:  cfg.UIDMap,
		GIDMap:  cfg.GIDMap,
		DryRun:  cfg.DryRun,
		Verbose: cfg.Verbose,
		Log:     log,
		Out:     out,
	}
	links := hardlink.New()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			disp.SetDoneForSignal()
		case <-stop:
		}
	}()
	defer close(stop)

	var wg sync.WaitGroup
	wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		wk := &Worker{
			ID:         i,
			Dispatcher: disp,
			Hardlinks:  links,
			Exclude:    cfg.Exclude,
			Owner:      owner,
			Log:        log,
			Stats:      stats,
		}
		go func() {
			defer wg.Done()
			wk.Run()
		}()
	}
	if cfg.ReportEvery > 0 {
		reportStop := make(chan struct{})
		go report(disp, stats, cfg.ReportEvery, out, reportStop)
		defer close(reportStop)
	}

	wg.Wait()

	return stats
}
