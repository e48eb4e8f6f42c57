package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Messages shown next to invalid form fields.
const (
	MsgDescription = "Cannot be empty or just spaces."
	MsgAmount      = "Please enter a valid amount."
	MsgDate        = "Please use YYYY-MM-DD format."
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the set of field problems found in one form submission.
type Errors []FieldError

func (errs Errors) Error() string {
	msgs := make([]string, len(errs))
	for i, fe := range errs {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field has an error.
func (errs Errors) Has(field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Input is the raw text of a transaction form. A nil field was not
// submitted and is not checked, which is how partial edits validate.
type Input struct {
	Description *string
	Amount      *string
	Date        *string
}

// Form validates every submitted field and returns the problems found, in
// field order. The description is trimmed first, like the form does.
func Form(in Input) Errors {
	var errs Errors

	if in.Description != nil && !Description(strings.TrimSpace(*in.Description)) {
		errs = append(errs, FieldError{Field: "description", Message: MsgDescription})
	}

	if in.Amount != nil {
		d, err := decimal.NewFromString(strings.TrimSpace(*in.Amount))
		if err != nil || !AmountValue(d) {
			errs = append(errs, FieldError{Field: "amount", Message: MsgAmount})
		}
	}

	if in.Date != nil && !Date(*in.Date) {
		errs = append(errs, FieldError{Field: "date", Message: MsgDate})
	}

	return errs
}
