package commands

import (
	"github.com/spf13/cobra"

	"github.com/budgetport/budgetport/internal/buildinfo"
	"github.com/budgetport/budgetport/internal/config"
)

type globalOptions struct {
	configPath string
	dryRun     bool
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "budgetport",
		Short:   "Move YNAB4 budgets and bank exports into a new budgeting app",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "import into an in-memory budget instead of the server")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log per-entity detail")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newFindBudgetsCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newIssuesCommand(opts))

	return rootCmd
}
