package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDescription(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Coffee", true},
		{"a", true},
		{"Lunch with Sam", true},
		{"", false},
		{"   ", false},
		{" a ", false},
		{"a ", false},
		{" a", false},
		{"\ta", false},
		{"a ", false},
		{"line\nbreak", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Description(tt.input), "Description(%q)", tt.input)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0", true},
		{"12", true},
		{"12.3", true},
		{"12.34", true},
		{"0.5", true},
		{"12.345", false},
		{"-1", false},
		{"01", false},
		{"1,000", false},
		{"1e3", false},
		{"12.", false},
		{".5", false},
		{"NaN", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Amount(tt.input), "Amount(%q)", tt.input)
	}
}

func TestAmountValue(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"12.50", true},
		{"0.00", true},
		{"20", true},
		{"12.345", false},
		{"-4", false},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.input)
		assert.Equal(t, tt.want, AmountValue(d), "AmountValue(%s)", tt.input)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-01-01", true},
		{"2024-12-31", true},
		{"2024-02-31", true}, // day range only, no month lengths
		{"2024-13-01", false},
		{"2024-00-10", false},
		{"2024-01-00", false},
		{"2024-01-32", false},
		{"24-01-01", false},
		{"2024/01/01", false},
		{"2024-1-1", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Date(tt.input), "Date(%q)", tt.input)
	}
}

func strPtr(s string) *string { return &s }

func TestForm_Valid(t *testing.T) {
	errs := Form(Input{
		Description: strPtr("  Coffee  "),
		Amount:      strPtr("4.50"),
		Date:        strPtr("2025-01-15"),
	})
	assert.Empty(t, errs)
}

func TestForm_AllInvalid(t *testing.T) {
	errs := Form(Input{
		Description: strPtr("   "),
		Amount:      strPtr("abc"),
		Date:        strPtr("2025-13-01"),
	})
	assert.Len(t, errs, 3)
	assert.Equal(t, FieldError{Field: "description", Message: MsgDescription}, errs[0])
	assert.Equal(t, FieldError{Field: "amount", Message: MsgAmount}, errs[1])
	assert.Equal(t, FieldError{Field: "date", Message: MsgDate}, errs[2])
	assert.Contains(t, errs.Error(), "validation failed")
	assert.Contains(t, errs.Error(), "amount: Please enter a valid amount.")
}

func TestForm_TooManyDecimals(t *testing.T) {
	errs := Form(Input{Amount: strPtr("12.345")})
	assert.True(t, errs.Has("amount"))
	assert.False(t, errs.Has("description"))
}

func TestForm_PartialSkipsMissingFields(t *testing.T) {
	errs := Form(Input{Date: strPtr("2025-02-01")})
	assert.Empty(t, errs)
}
