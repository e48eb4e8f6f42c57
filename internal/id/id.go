package id

import (
	"strings"

	"github.com/google/uuid"
)

// Prefix marks every transaction ID.
const Prefix = "txn_"

// New returns a fresh transaction ID like "txn_0191f3c2-...".
func New() string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return Prefix + u.String()
}

// Valid reports whether s looks like an ID produced by New.
func Valid(s string) bool {
	rest, ok := strings.CutPrefix(s, Prefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// Short returns the first 8 characters of the UUID part, for table display.
// IDs that are not ours are returned unchanged.
func Short(s string) string {
	rest, ok := strings.CutPrefix(s, Prefix)
	if !ok || len(rest) < 8 {
		return s
	}
	return rest[:8]
}
