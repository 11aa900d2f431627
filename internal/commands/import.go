package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/budgetport/budgetport/internal/budgetapi"
	"github.com/budgetport/budgetport/internal/importer"
	"github.com/budgetport/budgetport/internal/locate"
	"github.com/budgetport/budgetport/internal/migrate"
	"github.com/budgetport/budgetport/internal/ynab"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a budget or bank exports",
	}
	importCmd.AddCommand(newImportYNAB4Command(opts))
	importCmd.AddCommand(newImportCSVCommand(opts))
	importCmd.AddCommand(newImportCSVFileCommand(opts))
	return importCmd
}

func newImportYNAB4Command(opts *globalOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "ynab4 <budget.ynab4 | Budget.yfull>",
		Short: "Import a YNAB4 budget into a new budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return runImportYNAB4(s, args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name of the new budget (default: the YNAB4 budget name)")

	return cmd
}

func runImportYNAB4(s *session, path, name string) error {
	s.out.Step(1, 2, "Reading "+filepath.Base(path))
	b, err := loadYNAB4(path)
	if err != nil {
		return err
	}
	if name == "" {
		name = ynab4BudgetName(path)
	}

	srv, err := s.server()
	if err != nil {
		return err
	}

	s.out.Step(2, 2, fmt.Sprintf("Importing into %q", name))
	var report *migrate.Report
	err = srv.RunImport(s.ctx, name, func(ctx context.Context, c budgetapi.Client) error {
		if problems := ynab.Validate(b, c.AmountPlaces()); len(problems) > 0 {
			s.out.Warning(fmt.Sprintf("%d problems in export, affected entities may be skipped (see budgetport check)", len(problems)))
		}
		var err error
		report, err = s.importer(c).Run(ctx, b)
		return err
	})
	s.summarize(name, report)
	if err != nil {
		return fmt.Errorf("import failed, budget discarded: %w", err)
	}
	return nil
}

func loadYNAB4(path string) (*ynab.Budget, error) {
	dataFile, err := locate.DataFile(path)
	if err != nil {
		return nil, err
	}
	return ynab.Load(dataFile)
}

// ynab4BudgetName names the budget after the .ynab4 package in path.
func ynab4BudgetName(path string) string {
	for p := filepath.Clean(path); p != filepath.Dir(p); p = filepath.Dir(p) {
		if name, ok := locate.BudgetName(p); ok {
			return name
		}
	}
	return "Imported Budget"
}

func newImportCSVCommand(opts *globalOptions) *cobra.Command {
	var name, format string

	cmd := &cobra.Command{
		Use:   "csv <directory>",
		Short: "Create a budget with one account per bank spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return runImportCSV(s, args[0], name, format)
		},
	}

	cmd.Flags().StringVar(&name, "name", "MyBudget", "name of the new budget")
	cmd.Flags().StringVar(&format, "format", "rbc", "spreadsheet format")

	return cmd
}

func parserFor(format string) (importer.Parser, error) {
	reg := importer.DefaultRegistry()
	p := reg.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(reg.Formats(), ", "))
	}
	return p, nil
}

func runImportCSV(s *session, dir, name, format string) error {
	p, err := parserFor(format)
	if err != nil {
		return err
	}

	s.out.Step(1, 2, "Reading spreadsheets in "+dir)
	files, err := importer.LoadDir(dir, p)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .csv files in %s", dir)
	}

	srv, err := s.server()
	if err != nil {
		return err
	}

	s.out.Step(2, 2, fmt.Sprintf("Importing %d accounts into %q", len(files), name))
	var report *migrate.Report
	err = srv.RunImport(s.ctx, name, func(ctx context.Context, c budgetapi.Client) error {
		im := s.importer(c)
		report = im.Report()
		return im.ImportBankFiles(ctx, files)
	})
	s.summarize(name, report)
	if err != nil {
		return fmt.Errorf("import failed, budget discarded: %w", err)
	}
	return nil
}

func newImportCSVFileCommand(opts *globalOptions) *cobra.Command {
	var budgetID, format string

	cmd := &cobra.Command{
		Use:   "csv-file <file.csv>",
		Short: "Add one bank spreadsheet to an existing budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			if budgetID == "" {
				budgetID = s.cfg.Target.BudgetID
			}
			return runImportCSVFile(s, args[0], budgetID, format)
		},
	}

	cmd.Flags().StringVar(&budgetID, "budget", "", "target budget ID (default: target.budget_id)")
	cmd.Flags().StringVar(&format, "format", "rbc", "spreadsheet format")

	return cmd
}

func runImportCSVFile(s *session, path, budgetID, format string) error {
	p, err := parserFor(format)
	if err != nil {
		return err
	}
	f, err := importer.LoadFile(path, p)
	if err != nil {
		return err
	}

	c, err := s.openBudget(budgetID)
	if err != nil {
		return err
	}

	im := s.importer(c)
	err = im.ImportBankFile(s.ctx, f)
	s.summarize(f.AccountName, im.Report())
	if err != nil {
		return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}
	return nil
}
