// exclude_test.go -- exclusion filter tests
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package config

import (
	"strings"
	"testing"
)

func TestExclusionFilterMatchesByEquality(t *testing.T) {
	assert := newAsserter(t)

	in := strings.NewReader("skip\n# comment\n.git\n")
	f, err := LoadExclusions(in)
	assert(err == nil, "unexpected error: %s", err)

	assert(f.Match("skip"), "expected 'skip' to be excluded")
	assert(f.Match(".git"), "expected '.git' to be excluded")
	assert(!f.Match("skippy"), "exclusion must match by equality, not prefix")
	assert(f.Len() == 2, "expected 2 entries, got %d", f.Len())
}

func TestNilFilterNeverMatches(t *testing.T) {
	assert := newAsserter(t)

	var f *ExclusionFilter
	assert(!f.Match("anything"), "nil filter should never match")
	assert(f.Len() == 0, "nil filter should report 0 length")
}
