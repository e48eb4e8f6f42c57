package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the ISO-8601 form used for createdAt/updatedAt strings.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Field names, as they appear in the persisted JSON.
const (
	FieldID          = "id"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// FieldNames lists every transaction field in persisted order.
var FieldNames = []string{
	FieldID,
	FieldDescription,
	FieldAmount,
	FieldCategory,
	FieldDate,
	FieldCreatedAt,
	FieldUpdatedAt,
}

// Money is a non-negative decimal amount that serializes as a bare JSON number.
type Money struct {
	decimal.Decimal
}

// NewMoney parses s into a Money.
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return Money{Decimal: d}, nil
}

// MustMoney is NewMoney for literals; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MarshalJSON writes the amount unquoted, e.g. 4.5.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts both 4.5 and "4.5".
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// Display renders the amount the way the table and dashboard show it: $4.50.
func (m Money) Display() string {
	return "$" + m.StringFixed(2)
}

// Transaction is one recorded expense.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Field returns the string form of the named field, or "" if there is no such field.
func (t Transaction) Field(name string) string {
	switch name {
	case FieldID:
		return t.ID
	case FieldDescription:
		return t.Description
	case FieldAmount:
		return t.Amount.String()
	case FieldCategory:
		return t.Category
	case FieldDate:
		return t.Date
	case FieldCreatedAt:
		return formatTimestamp(t.CreatedAt)
	case FieldUpdatedAt:
		return formatTimestamp(t.UpdatedAt)
	default:
		return ""
	}
}

// IsField reports whether name is a transaction field.
func IsField(name string) bool {
	for _, f := range FieldNames {
		if f == name {
			return true
		}
	}
	return false
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(TimestampLayout)
}
