package ledger

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/search"
)

// sorter compares field strings the way a person reads them: by locale,
// with digit runs compared by value so "9" sorts before "10".
type sorter struct {
	col *collate.Collator
}

func newSorter(locale string) *sorter {
	tag := language.Und
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return &sorter{col: collate.New(tag, collate.Numeric)}
}

func (c *sorter) compare(a, b string) int {
	return c.col.CompareString(a, b)
}

// Query returns the transactions whose fields match searchText, ordered by
// the current sort state. An empty or invalid pattern filters nothing.
// The stored order is never changed.
func (s *Store) Query(searchText string, caseSensitive bool) []model.Transaction {
	m := s.compiler.Compile(searchText, caseSensitive)

	out := make([]model.Transaction, 0, len(s.state.Transactions))
	for _, t := range s.state.Transactions {
		if m == nil || matches(t, m) {
			out = append(out, t)
		}
	}

	by, order := s.state.Sort.By, s.state.Sort.Order
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		c := s.sorter.compare(a.Field(by), b.Field(by))
		if order == model.OrderDesc {
			return -c
		}
		return c
	})
	return out
}

// Matcher exposes the compiled form of a search, for highlighting.
func (s *Store) Matcher(searchText string, caseSensitive bool) *search.Matcher {
	return s.compiler.Compile(searchText, caseSensitive)
}

func matches(t model.Transaction, m *search.Matcher) bool {
	for _, f := range model.FieldNames {
		if m.Match(t.Field(f)) {
			return true
		}
	}
	return false
}
