package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetport/budgetport/internal/locate"
	"github.com/budgetport/budgetport/internal/output"
)

func newFindBudgetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find-budgets [directory...]",
		Short: "List YNAB4 budgets in the default YNAB folders or the given directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFindBudgets(cmd.OutOrStdout(), args)
		},
	}
}

func runFindBudgets(w io.Writer, dirs []string) error {
	var budgets []locate.Budget
	if len(dirs) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		if budgets, err = locate.FindBudgets(home); err != nil {
			return err
		}
	}
	for _, dir := range dirs {
		found, err := locate.FindBudgetsInDir(dir)
		if err != nil {
			return err
		}
		budgets = append(budgets, found...)
	}

	out := output.New(w)
	if len(budgets) == 0 {
		out.Warning("No YNAB4 budgets found")
		return nil
	}
	for _, b := range budgets {
		out.Success(b.Name)
		out.Info(b.Path)
	}
	return nil
}
