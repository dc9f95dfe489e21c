// exclude.go - exclusion filter (spec.md §3, §4, §6)
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
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ExclusionFilter is an immutable, ordered collection of basenames/paths
// matched against directory-entry basenames by equality (spec.md §6:
// "matched against each directory-entry basename by equality" -- not
// glob matching, unlike the teacher's walk.Options.Excludes which uses
// path.Match).
type ExclusionFilter struct {
	entries map[string]bool
}

// Match returns true if 'basename' is excluded.
func (f *ExclusionFilter) Match(basename string) bool {
	if f == nil {
		return false
	}
	return f.entries[basename]
}

// Len returns the number of distinct exclusion entries.
func (f *ExclusionFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// LoadExclusions parses one basename or path per line (spec.md §6).
func LoadExclusions(r io.Reader) (*ExclusionFilter, error) {
	f := &ExclusionFilter{entries: make(map[string]bool)}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		f.entries[line] = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("exclusion file: %w", err)
	}
	return f, nil
}
