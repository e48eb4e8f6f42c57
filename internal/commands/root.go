package commands

import (
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dir      string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "tally",
		Short:        "Personal finance tracker",
		Long:         "tally records expenses, searches and sorts them, and tracks spending against a budget cap.",
		Version:      buildinfo.String(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", config.HomeDir(), "project directory (env "+config.EnvHome+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newShowCommand(opts),
		newListCommand(opts),
		newSortCommand(opts),
		newSettingsCommand(opts),
		newDashboardCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newHistoryCommand(opts),
		newCategoriesCommand(opts),
	)

	return rootCmd
}
