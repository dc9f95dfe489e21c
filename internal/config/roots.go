// roots.go - filesystem roots file (spec.md §6)
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
	"path/filepath"
	"strings"

	"github.com/opencoff/chuid/internal/chuidlog"
)

// LoadRoots parses one absolute path per line; blank and '#' lines are
// ignored. Duplicate roots are warned about and ignored (spec.md §6).
func LoadRoots(r io.Reader, log *chuidlog.Logger) ([]string, error) {
	sc := bufio.NewScanner(r)

	var roots []string
	seen := make(map[string]bool)

	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			log.Warningf("roots file: line %d: %q is not an absolute path, skipping", lineno, line)
			continue
		}

		clean := filepath.Clean(line)
		if seen[clean] {
			log.Warningf("roots file: line %d: duplicate root %q, ignoring", lineno, clean)
			continue
		}
		seen[clean] = true
		roots = append(roots, clean)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("roots file: %w", err)
	}
	return roots, nil
}
