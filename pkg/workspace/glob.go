package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is returned for malformed ignore patterns.
var ErrBadPattern = errors.New("bad ignore pattern")

const globstarSuffix = "/**"

// Matcher matches slash-separated relative paths against ignore globs.
// Patterns use doublestar syntax: "**" for any number of segments and
// "{a,b}" alternatives. A leading "./" or "/" is dropped; patterns are
// always relative to the lint root.
type Matcher struct {
	patterns []string
}

// NewMatcher compiles patterns, rejecting malformed ones.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]string, 0, len(patterns))}

	for _, raw := range patterns {
		pattern := strings.TrimPrefix(strings.TrimPrefix(raw, "./"), "/")
		pattern = strings.TrimSuffix(pattern, "/")

		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, raw)
		}

		m.patterns = append(m.patterns, pattern)
	}

	return m, nil
}

// Match reports whether rel matches any pattern.
func (m *Matcher) Match(rel string) bool {
	for _, pattern := range m.patterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}

	return false
}

// MatchDir reports whether everything below the directory rel is ignored,
// so the walk can skip it.
func (m *Matcher) MatchDir(rel string) bool {
	for _, pattern := range m.patterns {
		if strings.HasSuffix(pattern, globstarSuffix) && doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}

	return false
}

// MatchPath reports whether path, resolved against root, matches any pattern.
// Paths outside root never match.
func (m *Matcher) MatchPath(root, path string) bool {
	if len(m.patterns) == 0 {
		return false
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}

	return m.Match(rel)
}
