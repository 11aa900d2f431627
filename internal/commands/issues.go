package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetport/budgetport/internal/importlog"
)

func newIssuesCommand(opts *globalOptions) *cobra.Command {
	var budget string

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List entities that earlier imports skipped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return runIssues(s, budget)
		},
	}

	cmd.Flags().StringVar(&budget, "budget", "", "only show issues for this budget name")

	return cmd
}

func runIssues(s *session, budget string) error {
	path := s.logPath()
	if path == "" {
		return fmt.Errorf("no import log configured: set import.log_file")
	}
	entries, err := importlog.Read(path)
	if err != nil {
		return err
	}

	shown := 0
	for _, e := range entries {
		if budget != "" && e.Budget != budget {
			continue
		}
		s.out.Warning(fmt.Sprintf("%s %s %s %s [%s]: %s",
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Budget, e.Phase, e.Ref, e.Kind, e.Message))
		shown++
	}
	if shown == 0 {
		s.out.Success("no skipped entities recorded")
	}
	return nil
}
