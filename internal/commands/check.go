package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/budgetport/budgetport/internal/output"
	"github.com/budgetport/budgetport/internal/ynab"
)

func newCheckCommand() *cobra.Command {
	var places int32

	cmd := &cobra.Command{
		Use:   "check <budget.ynab4 | Budget.yfull>",
		Short: "Report problems in a YNAB4 export without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args[0], places)
		},
	}

	cmd.Flags().Int32Var(&places, "places", 2, "decimal places the target stores")

	return cmd
}

func runCheck(w io.Writer, path string, places int32) error {
	b, err := loadYNAB4(path)
	if err != nil {
		return err
	}

	out := output.New(w)
	problems := ynab.Validate(b, places)
	if len(problems) == 0 {
		out.Success(fmt.Sprintf("%d accounts, %d transactions, no problems found", len(b.Accounts), len(b.Transactions)))
		return nil
	}
	for _, p := range problems {
		out.Warning(p.Error())
	}
	return fmt.Errorf("%d problems found", len(problems))
}
