package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/dashboard"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

func newSettingsCommand(opts *rootOptions) *cobra.Command {
	var budgetCap string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Example: `  tally settings
  tally settings --budget-cap 300
  tally settings --budget-cap none`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("budget-cap") {
				return withEnv(cmd, opts, func(e *env) error {
					fmt.Fprintln(cmd.OutOrStdout(), "Budget cap: "+capDisplay(e.ledger.Settings()))
					return nil
				})
			}

			patch, err := parseBudgetCap(budgetCap)
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(e *env) error {
				msg := e.ledger.UpdateSettings(patch)
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				e.record(activity.ActionSettings, "Budget cap: "+capDisplay(e.ledger.Settings()), "")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&budgetCap, "budget-cap", "", `spending cap, or "none" to remove it`)

	return cmd
}

// parseBudgetCap reads the --budget-cap value. Empty or "none" clears the
// cap; anything else must be a non-negative number.
func parseBudgetCap(s string) (ledger.SettingsPatch, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return ledger.SettingsPatch{ClearBudgetCap: true}, nil
	}
	m, err := model.NewMoney(s)
	if err != nil {
		return ledger.SettingsPatch{}, fmt.Errorf("invalid budget cap: %w", err)
	}
	if m.IsNegative() {
		return ledger.SettingsPatch{}, fmt.Errorf("invalid budget cap %s: must not be negative", s)
	}
	return ledger.SettingsPatch{BudgetCap: &m}, nil
}

func capDisplay(s model.Settings) string {
	if s.BudgetCap == nil {
		return "none"
	}
	return s.BudgetCap.Display()
}

func newDashboardCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"stats"},
		Short:   "Show totals, top category and budget status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				state := e.ledger.State()
				renderDashboard(cmd.OutOrStdout(), dashboard.Compute(state.Transactions, state.Settings))
				return nil
			})
		},
	}
}
