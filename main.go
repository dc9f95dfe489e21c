// main.go - chuid entrypoint (spec.md §5, §6, §7)
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

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/opencoff/chuid/internal/chuidlog"
	"github.com/opencoff/chuid/internal/config"
	"github.com/opencoff/chuid/internal/engine"
)

func main() {
	raw, err := parseArgs(os.Args[1:])
	if err != nil {
		Die("%s", err)
	}

	// A throwaway bootstrap logger: config.Load needs one to report
	// malformed lines in the input files, but Load only checks that -l
	// was given. So these diagnostics go to a chuid_log inside the
	// system temp directory; the real log file inside cfg.LogDir is
	// opened after Load returns.
	boot, err := chuidlog.New(os.TempDir(), raw.Verbose)
	if err != nil {
		Die("bootstrap log: %s", err)
	}

	cfg, err := config.Load(raw, boot)
	boot.Close()
	if err != nil {
		exitOnStartupError(err)
	}

	log, err := chuidlog.New(cfg.LogDir, cfg.Verbose)
	if err != nil {
		exitOnStartupError(err)
	}
	defer log.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var signalled atomic.Bool
	go func() {
		sig := <-sigc
		log.Infof("received signal %s, shutting down", sig)
		signalled.Store(true)
		cancel()
	}()

	stats := engine.Run(ctx, cfg, log, os.Stdout)
	signal.Stop(sigc)

	files, dirs, links, others := stats.Snapshot()
	log.Infof("done: files=%d dirs=%d links=%d others=%d", files, dirs, links, others)

	if signalled.Load() {
		os.Exit(1)
	}
}

// exitOnStartupError implements spec.md §7's "fail fast, exit with the
// underlying errno" rule for filesystem startup errors, falling back to
// EXIT_FAILURE for errors (validation failures) that carry no errno.
func exitOnStartupError(err error) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		Warn("%s", err)
		os.Exit(int(errno))
	}
	Die("%s", err)
}
