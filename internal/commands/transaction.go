package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/category"
	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/validate"
)

// txnFlags are the transaction form fields shared by add and edit.
type txnFlags struct {
	description string
	amount      string
	category    string
	date        string
}

func (f *txnFlags) register(cmd *cobra.Command, opts *rootOptions) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the money was spent on")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 4.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category (free text)")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategory(opts))
}

// input returns the submitted fields; unchanged flags stay nil.
func (f *txnFlags) input(cmd *cobra.Command) validate.Input {
	var in validate.Input
	if cmd.Flags().Changed("description") {
		in.Description = &f.description
	}
	if cmd.Flags().Changed("amount") {
		in.Amount = &f.amount
	}
	if cmd.Flags().Changed("date") {
		in.Date = &f.date
	}
	return in
}

func completeCategory(opts *rootOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		snap, err := readSnapshot(opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return category.NewService(snap.Transactions).Complete(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func parseAmount(s string) (model.Money, error) {
	m, err := model.NewMoney(strings.TrimSpace(s))
	if err != nil {
		return model.Money{}, validate.Errors{{Field: "amount", Message: validate.MsgAmount}}
	}
	return m, nil
}

// resolveID expands the short form shown by list to a full ID. Anything
// else, including an ambiguous short form, comes back unchanged.
func resolveID(l *ledger.Store, arg string) string {
	if _, ok := l.Get(arg); ok || id.Valid(arg) {
		return arg
	}
	full := ""
	for _, t := range l.State().Transactions {
		if id.Short(t.ID) != arg {
			continue
		}
		if full != "" {
			return arg
		}
		full = t.ID
	}
	if full == "" {
		return arg
	}
	return full
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	var f txnFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		Example: `  tally add -d "Coffee" -a 4.50 -c Food --date 2025-01-15
  tally add -d "Bus pass" -a 20 -c Transport   # date defaults to today`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("date") {
				f.date = time.Now().Format("2006-01-02")
			}
			in := validate.Input{Description: &f.description, Amount: &f.amount, Date: &f.date}
			if errs := validate.Form(in); len(errs) > 0 {
				return errs
			}
			amount, err := parseAmount(f.amount)
			if err != nil {
				return err
			}

			return withEnv(cmd, opts, func(e *env) error {
				txn, msg := e.ledger.Add(ledger.Input{
					Description: strings.TrimSpace(f.description),
					Amount:      amount,
					Category:    f.category,
					Date:        f.date,
				})
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("id: "+txn.ID))
				e.record(activity.ActionAdd, msg, txn.ID)
				return nil
			})
		},
	}
	f.register(cmd, opts)
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newEditCommand(opts *rootOptions) *cobra.Command {
	var f txnFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long:  "Change fields of a transaction. Only the flags given are updated.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := f.input(cmd)
			if errs := validate.Form(in); len(errs) > 0 {
				return errs
			}

			var u ledger.Update
			if in.Description != nil {
				desc := strings.TrimSpace(f.description)
				u.Description = &desc
			}
			if in.Amount != nil {
				amount, err := parseAmount(f.amount)
				if err != nil {
					return err
				}
				u.Amount = &amount
			}
			if cmd.Flags().Changed("category") {
				u.Category = &f.category
			}
			if in.Date != nil {
				u.Date = &f.date
			}
			if u == (ledger.Update{}) {
				return fmt.Errorf("nothing to change: pass at least one of --description, --amount, --category, --date")
			}

			return withEnv(cmd, opts, func(e *env) error {
				txn, msg, err := e.ledger.Update(resolveID(e.ledger, args[0]), u)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				e.record(activity.ActionEdit, msg, txn.ID)
				return nil
			})
		},
	}
	f.register(cmd, opts)

	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				txnID := resolveID(e.ledger, args[0])
				msg := e.ledger.Delete(txnID)
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				e.record(activity.ActionDelete, msg, txnID)
				return nil
			})
		},
	}
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				txn, ok := e.ledger.Get(resolveID(e.ledger, args[0]))
				if !ok {
					return fmt.Errorf("%w: %s", ledger.ErrNotFound, args[0])
				}
				renderTransaction(cmd.OutOrStdout(), txn)
				return nil
			})
		},
	}
}
