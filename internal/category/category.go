// Package category lists the categories offered for completion and by the
// categories command. Categories are free text; this is a suggestion list,
// not a constraint.
package category

import (
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// Defaults returns the built-in categories.
func Defaults() []string {
	return []string{
		"Food",
		"Books",
		"Transport",
		"Entertainment",
		"Fees",
		"Other",
	}
}

// Service provides lookup over known categories.
type Service struct {
	names []string
	byKey map[string]string
}

// NewService creates a Service holding the defaults plus every category in
// txns, defaults first, then first-seen order. Names differing only in case
// are merged; blank categories are skipped.
func NewService(txns []model.Transaction) *Service {
	s := &Service{byKey: make(map[string]string)}
	for _, name := range Defaults() {
		s.add(name)
	}
	for _, t := range txns {
		s.add(t.Category)
	}
	return s
}

func (s *Service) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if _, ok := s.byKey[key]; ok {
		return
	}
	s.byKey[key] = name
	s.names = append(s.names, name)
}

// All returns every known category.
func (s *Service) All() []string {
	return append([]string(nil), s.names...)
}

// Exists reports whether name is known, ignoring case.
func (s *Service) Exists(name string) bool {
	_, ok := s.byKey[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Complete returns the categories starting with prefix, ignoring case.
func (s *Service) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, name := range s.names {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			out = append(out, name)
		}
	}
	return out
}

// Counts returns how many transactions use each category, keyed by the
// category as written.
func Counts(txns []model.Transaction) map[string]int {
	counts := make(map[string]int)
	for _, t := range txns {
		counts[t.Category]++
	}
	return counts
}
