package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/model"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		searchText    string
		caseSensitive bool
		highlight     string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, optionally filtered by a regular expression",
		Example: `  tally list
  tally list --search coff
  tally list --search '^Book' --case-sensitive --highlight tags`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(highlightModes, highlight) {
				return fmt.Errorf("invalid --highlight %q (want one of %v)", highlight, highlightModes)
			}
			return withEnv(cmd, opts, func(e *env) error {
				txns := e.ledger.Query(searchText, caseSensitive)
				mark := highlighter(highlight, e.ledger.Matcher(searchText, caseSensitive))
				renderTable(cmd.OutOrStdout(), txns, e.ledger.State().Sort, mark)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&searchText, "search", "s", "", "regular expression matched against every field")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case exactly")
	cmd.Flags().StringVar(&highlight, "highlight", highlightColor, "how to mark matches: color, tags or none")
	_ = cmd.RegisterFlagCompletionFunc("highlight", cobra.FixedCompletions(highlightModes, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func newSortCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <field>",
		Short: "Sort the table by a field; repeating the field flips the order",
		Long: fmt.Sprintf(`Sort the table by a field. Sorting by the current field flips between
ascending and descending; a new field starts ascending.

Fields: %v`, model.FieldNames),
		Args:      cobra.ExactArgs(1),
		ValidArgs: model.FieldNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				s, err := e.ledger.Sort(args[0])
				if err != nil {
					return err
				}
				msg := fmt.Sprintf("Sorted by %s (%s).", s.By, s.Order)
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				e.record(activity.ActionSort, msg, "")
				return nil
			})
		},
	}
}
