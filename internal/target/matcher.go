// Package target classifies directory basenames against the active set
// of cache/dependency target patterns. Literal names are matched with an
// O(1) map lookup; the small number of suffix-glob patterns (e.g.
// "cmake-build-*", "*.egg-info") are compiled once with
// github.com/gobwas/glob, the same library the teacher's
// pkg/sweep/filter package uses for its own include/exclude globs, and
// scanned linearly.
package target

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Match is the outcome of a successful basename match: the pattern that
// matched and the profile tag it belongs to (empty for literal targets
// supplied via -t/--targets, which carry no profile).
type Match struct {
	Pattern string
	Profile string
}

type globEntry struct {
	pattern string
	profile string
	g       glob.Glob
}

// Matcher classifies directory basenames against a fixed target set and
// exclusion set. Build with New; safe for concurrent use once built,
// since it never mutates after construction (fastwalk calls Match and
// Excluded from multiple worker goroutines).
type Matcher struct {
	literals        map[string]string // basename -> profile
	globs           []globEntry
	exclusion       map[string]struct{}
	caseInsensitive bool
}

// New builds a Matcher from two target maps and an exclusion list.
//
// literals maps literal directory basenames (e.g. "node_modules") to
// their profile tag. globPatterns maps "*"-suffix/prefix glob patterns
// (e.g. "cmake-build-*", "*.egg-info") to their profile tag; either map
// may be nil. excludes is a basename blacklist checked before targets
// are considered at all.
//
// caseInsensitive folds both the compiled patterns and lookup keys to
// lowercase, for hosts whose filesystem default is case-insensitive
// (spec.md §9(a) leaves this to host defaults rather than mandating
// either behavior).
//
// New returns an error only if a glob pattern fails to compile.
func New(literals map[string]string, globPatterns map[string]string, excludes []string, caseInsensitive bool) (*Matcher, error) {
	m := &Matcher{
		literals:        make(map[string]string, len(literals)),
		exclusion:       make(map[string]struct{}, len(excludes)),
		caseInsensitive: caseInsensitive,
	}

	fold := func(s string) string {
		if caseInsensitive {
			return strings.ToLower(s)
		}
		return s
	}

	for name, profile := range literals {
		if name == "" {
			continue
		}
		m.literals[fold(name)] = profile
	}

	for pattern, profile := range globPatterns {
		if pattern == "" {
			continue
		}
		compiled := pattern
		if caseInsensitive {
			compiled = strings.ToLower(pattern)
		}
		g, err := glob.Compile(compiled)
		if err != nil {
			return nil, fmt.Errorf("target: compiling glob %q: %w", pattern, err)
		}
		m.globs = append(m.globs, globEntry{pattern: pattern, profile: profile, g: g})
	}

	for _, e := range excludes {
		if e == "" {
			continue
		}
		m.exclusion[fold(e)] = struct{}{}
	}

	return m, nil
}

// Match classifies basename against the active target set. It returns
// the matched pattern/profile and true on a match, or the zero Match and
// false otherwise. Literal names are checked before suffix globs, since
// the literal map is O(1) and typically the vast majority of hits.
func (m *Matcher) Match(basename string) (Match, bool) {
	key := basename
	if m.caseInsensitive {
		key = strings.ToLower(basename)
	}

	if profile, ok := m.literals[key]; ok {
		return Match{Pattern: key, Profile: profile}, true
	}
	for _, ge := range m.globs {
		if ge.g.Match(key) {
			return Match{Pattern: ge.pattern, Profile: ge.profile}, true
		}
	}
	return Match{}, false
}

// Excluded reports whether basename is in the exclusion set. Exclusion
// is checked by the walker before Match, so an excluded directory is
// never traversed and never emitted even if it would otherwise match a
// target.
func (m *Matcher) Excluded(basename string) bool {
	key := basename
	if m.caseInsensitive {
		key = strings.ToLower(basename)
	}
	_, ok := m.exclusion[key]
	return ok
}
