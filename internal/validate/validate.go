// Package validate holds the form predicates for transactions.
//
// The predicates never fail loudly: bad input is simply false. Form
// collects per-field messages for the caller to display.
package validate

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Whitespace as JavaScript's \s sees it: ASCII space characters, every
// Unicode separator (Zs, Zl, Zp) and the byte-order mark.
const space = `\t\n\x0B\f\r\p{Z}\x{FEFF}`

var (
	descriptionPattern = regexp.MustCompile(`^[^` + space + `](?:[^\n\r\x{2028}\x{2029}]*[^` + space + `])?$`)
	amountPattern      = regexp.MustCompile(`^(0|[1-9][0-9]*)(\.[0-9]{1,2})?$`)
	// Day range only; 2024-02-31 passes.
	datePattern = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
)

// Description reports whether value is non-empty with no leading or
// trailing whitespace.
func Description(value string) bool {
	return value != "" && descriptionPattern.MatchString(value)
}

// Amount reports whether value is a non-negative number with at most two
// fractional digits, written without sign, exponent or separators.
func Amount(value string) bool {
	return amountPattern.MatchString(value)
}

// AmountValue checks the canonical string form of d, so 12.50 passes and
// 12.345 does not.
func AmountValue(d decimal.Decimal) bool {
	return Amount(d.String())
}

// Date reports whether value is YYYY-MM-DD with month 01-12 and day 01-31.
// Month lengths and leap years are not checked.
func Date(value string) bool {
	return datePattern.MatchString(value)
}
