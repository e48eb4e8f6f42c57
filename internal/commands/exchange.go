package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/backup"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as JSON (or transactions as CSV)",
		Example: `  tally export --out finance-data.json
  tally export --format csv > transactions.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("invalid --format %q (want json or csv)", format)
			}
			return withEnv(cmd, opts, func(e *env) error {
				snap := e.store.Load()

				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("creating export file: %w", err)
					}
					defer f.Close()
					w = f
				}

				var err error
				if format == "csv" {
					err = backup.WriteCSV(w, snap.Transactions)
				} else {
					err = backup.Export(w, snap)
				}
				if err != nil {
					return err
				}
				if out != "" && out != "-" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transaction(s) to %s\n", len(snap.Transactions), out)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "csv"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with an exported JSON file",
		Long: `Replace all data with an exported JSON file. The file must contain both
"transactions" and "settings"; "sort" is optional. Use - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			data, err := backup.Import(r)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(backup.MsgImportError))
				return err
			}

			return withEnv(cmd, opts, func(e *env) error {
				txns := ledger.Normalize(data.Transactions, time.Now().UTC().Truncate(time.Millisecond))
				e.ledger.SetState(ledger.Patch{
					Transactions: txns,
					Settings:     &data.Settings,
					Sort:         data.Sort,
				})
				e.log.Info("data imported",
					log.FieldOperation, log.OpImport, log.FieldSource, args[0], log.FieldCount, len(txns))

				fmt.Fprintln(cmd.OutOrStdout(), backup.MsgImported)
				e.record(activity.ActionImport, fmt.Sprintf("Imported %d transaction(s) from %s", len(txns), args[0]), "")
				return nil
			})
		},
	}
}
