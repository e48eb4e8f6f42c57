// Package dashboard computes the summary figures shown next to the
// transaction table.
package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// NoCategory is reported as the top category when there are no transactions.
const NoCategory = "N/A"

// MsgNoCap is the budget status when no positive cap is set.
const MsgNoCap = "No cap set."

// Stats summarizes a set of transactions against the settings.
type Stats struct {
	Count       int
	TotalSpent  decimal.Decimal
	TopCategory string
	Budget      Budget
}

// Budget is the position relative to the budget cap.
type Budget struct {
	HasCap    bool
	Cap       decimal.Decimal
	Remaining decimal.Decimal // negative when over
}

// Over reports whether spending exceeds the cap.
func (b Budget) Over() bool {
	return b.HasCap && b.Remaining.IsNegative()
}

// Status renders the budget position: "$X left", "$X over" or "No cap set.".
func (b Budget) Status() string {
	if !b.HasCap {
		return MsgNoCap
	}
	if b.Over() {
		return "$" + b.Remaining.Neg().StringFixed(2) + " over"
	}
	return "$" + b.Remaining.StringFixed(2) + " left"
}

// Compute returns the dashboard figures for txns. It always runs over the
// full list, never a filtered view.
func Compute(txns []model.Transaction, settings model.Settings) Stats {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount.Decimal)
	}

	stats := Stats{
		Count:       len(txns),
		TotalSpent:  total,
		TopCategory: TopCategory(txns),
	}
	if settings.HasCap() {
		capAmount := settings.BudgetCap.Decimal
		stats.Budget = Budget{
			HasCap:    true,
			Cap:       capAmount,
			Remaining: capAmount.Sub(total),
		}
	}
	return stats
}

// TopCategory returns the most frequent category. Ties go to the category
// seen first; an empty list yields NoCategory.
func TopCategory(txns []model.Transaction) string {
	if len(txns) == 0 {
		return NoCategory
	}
	counts := make(map[string]int)
	var order []string
	for _, t := range txns {
		if _, ok := counts[t.Category]; !ok {
			order = append(order, t.Category)
		}
		counts[t.Category]++
	}

	top := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[top] {
			top = c
		}
	}
	return top
}

// TotalDisplay renders the total spent as "$0.00".
func (s Stats) TotalDisplay() string {
	return "$" + s.TotalSpent.StringFixed(2)
}
