// mapping.go - UID/GID mapping tables (spec.md §3, §6)
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
	"strconv"
	"strings"

	"github.com/opencoff/chuid/internal/chuidlog"
)

// Pair is one old->new identifier mapping.
type Pair struct {
	Old uint32
	New uint32
}

// IDMap is an immutable, insertion-ordered sequence of old->new pairs,
// queried by linear scan for the first matching old id (spec.md §3).
// Linear scan is deliberate: the expected table size is small (an
// operator-supplied mapping file), so a contiguous slice beats a map
// both in simplicity and in preserving "first match wins" semantics
// without extra bookkeeping.
type IDMap struct {
	pairs []Pair
}

// Query returns the new id for the first pair whose Old equals 'old',
// or (0, false) if no such pair exists.
func (m *IDMap) Query(old uint32) (uint32, bool) {
	for _, p := range m.pairs {
		if p.Old == old {
			return p.New, true
		}
	}
	return 0, false
}

// Len returns the number of mapping entries.
func (m *IDMap) Len() int {
	return len(m.pairs)
}

// add appends a pair unless 'old' is a duplicate, in which case the
// first occurrence is kept and the caller is told so (spec.md §6: "warn
// and keep the first occurrence").
func (m *IDMap) add(old, new uint32) (dup bool) {
	for _, p := range m.pairs {
		if p.Old == old {
			return true
		}
	}
	m.pairs = append(m.pairs, Pair{Old: old, New: new})
	return false
}

// LoadMappings parses the mapping file grammar from spec.md §6:
//
//	# comment or blank line: ignored
//	u:<oldUID> <newUID>
//	g:<oldGID> <newGID>
//
// Tag recognition is case-insensitive; the separator is any run of
// whitespace or commas. Malformed lines are logged and skipped.
func LoadMappings(r io.Reader, log *chuidlog.Logger) (uidMap, gidMap *IDMap, err error) {
	uidMap = &IDMap{}
	gidMap = &IDMap{}

	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		tag, rest, ok := strings.Cut(line, ":")
		if !ok {
			log.Warningf("mapping file: line %d: missing ':' tag: %q", lineno, line)
			continue
		}

		fields := strings.FieldsFunc(rest, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if len(fields) != 2 {
			log.Warningf("mapping file: line %d: expected 'old new', got %q", lineno, line)
			continue
		}

		oldID, err1 := strconv.ParseUint(fields[0], 10, 32)
		newID, err2 := strconv.ParseUint(fields[1], 10, 32)
		if err1 != nil || err2 != nil {
			log.Warningf("mapping file: line %d: non-numeric id in %q", lineno, line)
			continue
		}

		switch strings.ToLower(tag) {
		case "u":
			if uidMap.add(uint32(oldID), uint32(newID)) {
				log.Warningf("mapping file: line %d: duplicate uid %d, keeping first", lineno, oldID)
			}
		case "g":
			if gidMap.add(uint32(oldID), uint32(newID)) {
				log.Warningf("mapping file: line %d: duplicate gid %d, keeping first", lineno, oldID)
			}
		default:
			log.Warningf("mapping file: line %d: unrecognized tag %q", lineno, tag)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("mapping file: %w", err)
	}
	return uidMap, gidMap, nil
}
