package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tally-dev/tally/internal/dashboard"
	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/search"
)

// MsgNoTransactions is printed instead of an empty table.
const MsgNoTransactions = "No transactions found."

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	markStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#f9e2af")).Foreground(lipgloss.Color("#1e1e2e"))
)

// Highlight modes for list output.
const (
	highlightColor = "color"
	highlightTags  = "tags"
	highlightNone  = "none"
)

var highlightModes = []string{highlightColor, highlightTags, highlightNone}

// highlighter returns the function that marks matches in a cell.
func highlighter(mode string, m *search.Matcher) func(string) string {
	switch mode {
	case highlightTags:
		return func(s string) string { return search.Highlight(s, m) }
	case highlightNone:
		return func(s string) string { return s }
	default:
		return func(s string) string { return search.HighlightFunc(s, m, func(t string) string { return markStyle.Render(t) }) }
	}
}

const colAmount = 4

// renderTable draws txns as a bordered table with short IDs. Description
// and category are passed through mark. Amounts are right-aligned.
func renderTable(w io.Writer, txns []model.Transaction, sortState model.SortState, mark func(string) string) {
	if len(txns) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(MsgNoTransactions))
		return
	}

	headers := []string{"ID", "Description", "Category", "Date", "Amount"}
	for i, field := range []string{model.FieldID, model.FieldDescription, model.FieldCategory, model.FieldDate, model.FieldAmount} {
		if field == sortState.By {
			headers[i] += sortIndicator(sortState.Order)
		}
	}

	rows := make([][]string, len(txns))
	for i, t := range txns {
		rows[i] = []string{
			id.Short(t.ID),
			mark(t.Description),
			mark(t.Category),
			t.Date,
			t.Amount.Display(),
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle.Padding(0, 1)
			}
			if col == colAmount {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	fmt.Fprintln(w, tbl.String())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d transaction(s)", len(txns))))
}

func sortIndicator(o model.SortOrder) string {
	if o == model.OrderAsc {
		return " ▲"
	}
	return " ▼"
}

// renderTransaction prints one transaction as aligned key/value lines.
func renderTransaction(w io.Writer, t model.Transaction) {
	fields := [][2]string{
		{"ID", t.ID},
		{"Description", t.Description},
		{"Amount", t.Amount.Display()},
		{"Category", t.Category},
		{"Date", t.Date},
		{"Created", t.Field(model.FieldCreatedAt)},
		{"Updated", t.Field(model.FieldUpdatedAt)},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-12s %s\n", headerStyle.Render(f[0]+":"), f[1])
	}
}

// renderDashboard prints the summary figures.
func renderDashboard(w io.Writer, s dashboard.Stats) {
	status := s.Budget.Status()
	switch {
	case !s.Budget.HasCap:
	case s.Budget.Over():
		status = errorStyle.Render(status)
	default:
		status = successStyle.Render(status)
	}

	lines := [][2]string{
		{"Total records", fmt.Sprint(s.Count)},
		{"Total spent", s.TotalDisplay()},
		{"Top category", s.TopCategory},
		{"Budget", status},
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%-15s %s\n", headerStyle.Render(l[0]+":"), l[1])
	}
}
