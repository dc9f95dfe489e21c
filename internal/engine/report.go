// report.go - optional progress reporter (spec.md §5, §6 "-s")
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
	"fmt"
	"io"
	"time"
)

// report runs until stop is closed, printing a one-line snapshot of
// dispatcher and stats counters every 'every'. It reads dispatcher and
// stats state unsynchronized, exactly as spec.md §5 sanctions for "an
// optional reporter thread".
func report(disp *Dispatcher, stats *Stats, every time.Duration, out io.Writer, stop <-chan struct{}) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s := disp.Snapshot()
			files, dirs, links, others := stats.Snapshot()
			fmt.Fprintf(out, "progress: busy=%d/%d fast=%d(%.1f/s) slow=%d(%.1f/s) files=%d dirs=%d links=%d others=%d\n",
				s.Busy, s.Workers, s.FastLen, s.FastSpeed, s.SlowLen, s.SlowSpeed, files, dirs, links, others)
		}
	}
}
