// Package search turns the user's search box text into a reusable
// regular-expression matcher and marks matches for display.
package search

import (
	"regexp"
	"time"

	"github.com/tally-dev/tally/internal/cache"
)

// Matcher matches the string form of a field value.
type Matcher struct {
	re *regexp.Regexp
}

// Match reports whether s contains a match.
func (m *Matcher) Match(s string) bool {
	return m != nil && m.re.MatchString(s)
}

// String returns the compiled expression.
func (m *Matcher) String() string {
	if m == nil {
		return ""
	}
	return m.re.String()
}

// Compile returns a matcher for pattern, or nil when pattern is empty or
// not a valid expression. Nil means "no filter". Matching ignores case
// unless caseSensitive is set.
func Compile(pattern string, caseSensitive bool) *Matcher {
	if pattern == "" {
		return nil
	}
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return &Matcher{re: re}
}

// Highlight wraps every match in text with <mark></mark>. Text comes back
// unchanged when m is nil or text is empty.
func Highlight(text string, m *Matcher) string {
	return HighlightFunc(text, m, func(s string) string {
		return "<mark>" + s + "</mark>"
	})
}

// HighlightFunc is Highlight with a caller-supplied marker. Empty matches
// are left alone so patterns like "a*" do not litter the output.
func HighlightFunc(text string, m *Matcher, wrap func(string) string) string {
	if m == nil || text == "" {
		return text
	}
	return m.re.ReplaceAllStringFunc(text, func(match string) string {
		if match == "" {
			return match
		}
		return wrap(match)
	})
}

// Compiler caches matchers so a query typed repeatedly compiles once.
// Invalid patterns are cached too, as nil.
type Compiler struct {
	cache cache.Cache[*Matcher]
}

// DefaultCacheSize is used when NewCompiler is given a non-positive size.
const DefaultCacheSize = 64

// NewCompiler creates a Compiler remembering up to size patterns.
func NewCompiler(size int) *Compiler {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Compiler{cache: cache.NewLRU[*Matcher](size, time.Hour)}
}

// Compile is the cached form of the package-level Compile.
func (c *Compiler) Compile(pattern string, caseSensitive bool) *Matcher {
	if pattern == "" {
		return nil
	}
	key := "i:" + pattern
	if caseSensitive {
		key = "s:" + pattern
	}
	if m, ok := c.cache.Get(key); ok {
		return m
	}
	m := Compile(pattern, caseSensitive)
	c.cache.Set(key, m)
	return m
}
