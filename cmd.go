// cmd.go - CLI flag surface (spec.md §6)
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
	"fmt"
	"os"
	"path"
	"time"

	flag "github.com/opencoff/pflag"

	"github.com/opencoff/chuid/internal/config"
)

// Z is the program name used in usage and log messages.
var Z = path.Base(os.Args[0])

// parseArgs builds the pflag flagset from spec.md §6 and returns the raw
// (unvalidated, unloaded) config surface.
func parseArgs(args []string) (raw config.Raw, err error) {
	var help bool
	var seconds int

	fs := flag.NewFlagSet(Z, flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	fs.StringVarP(&raw.MappingFile, "id-map", "i", "", "Use `FILE` as the UID/GID mapping [REQUIRED]")
	fs.StringVarP(&raw.RootsFile, "dirs", "d", "", "Use `FILE` as the list of filesystem roots [REQUIRED]")
	fs.StringVarP(&raw.ExcludeFile, "exclude", "e", "", "Use `FILE` as the list of excluded basenames")
	fs.StringVarP(&raw.LogDir, "log-dir", "l", "", "Create chuid_log inside `DIR` [REQUIRED]")
	fs.IntVarP(&raw.Workers, "threads", "t", 20, "Use `N` worker goroutines")
	fs.Float64VarP(&raw.BusyThreshold, "busy-threshold", "b", 0.9, "Use `F` as the handover busy threshold, in (0, 1]")
	fs.IntVarP(&seconds, "stats", "s", 0, "Print progress every `N` seconds [disabled]")
	fs.BoolVarP(&raw.SinglePool, "one-pool", "o", false, "Disable the fast/slow pool split")
	fs.BoolVarP(&raw.BreadthFirst, "breadth-first", "q", false, "Use a breadth-first private queue [depth-first]")
	fs.BoolVarP(&raw.DryRun, "dry-run", "n", false, "Report intended changes; change nothing")
	fs.BoolVarP(&raw.Verbose, "verbose", "v", false, "Log every ownership change")
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")

	if err = fs.Parse(args); err != nil {
		return raw, err
	}

	if help {
		usage(fs)
	}

	if seconds > 0 {
		raw.ReportEvery = time.Duration(seconds) * time.Second
	}
	return raw, nil
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(usageStr, Z)
	fs.PrintDefaults()
	os.Exit(0)
}

// Die prints a formatted error to stderr and exits with EXIT_FAILURE,
// matching spec.md §7's treatment of configuration errors.
func Die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", Z, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Warn prints a formatted warning to stderr without exiting.
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", Z, fmt.Sprintf(format, args...))
}

var usageStr = `%s - rewrite file ownership across a set of filesystem roots.

Usage: %[1]s -i map -d roots -l logdir [options]

Options:
`
