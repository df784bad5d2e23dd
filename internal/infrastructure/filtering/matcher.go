package filtering

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Matcher matches request URLs against glob patterns such as
// "*://*.doubleclick.net/*". '*' matches any run of characters.
type Matcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewMatcher compiles patterns; the first invalid one fails the whole set.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{
		patterns: make([]string, 0, len(patterns)),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile filter pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, p)
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match returns the first pattern url matches.
func (m *Matcher) Match(url string) (string, bool) {
	if m == nil {
		return "", false
	}
	for i, g := range m.globs {
		if g.Match(url) {
			return m.patterns[i], true
		}
	}
	return "", false
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.globs)
}
