// roots_test.go -- roots file tests
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package config

import (
	"strings"
	"testing"
)

func TestLoadRootsDedupAndFilters(t *testing.T) {
	assert := newAsserter(t)

	in := strings.NewReader(`
# comment
/a
/b
/a
relative/path
/b/
`)
	roots, err := LoadRoots(in, testLogger(t))
	assert(err == nil, "unexpected error: %s", err)
	assert(len(roots) == 2, "expected 2 unique roots, got %d: %v", len(roots), roots)
	assert(roots[0] == "/a", "expected first root /a, got %s", roots[0])
	assert(roots[1] == "/b", "expected second root /b, got %s", roots[1])
}
