package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/budgetport/budgetport/internal/budgetapi"
	"github.com/budgetport/budgetport/internal/budgetapi/httpapi"
	"github.com/budgetport/budgetport/internal/budgetapi/memory"
	"github.com/budgetport/budgetport/internal/config"
	"github.com/budgetport/budgetport/internal/importlog"
	"github.com/budgetport/budgetport/internal/logger"
	"github.com/budgetport/budgetport/internal/migrate"
	"github.com/budgetport/budgetport/internal/output"
)

// session carries what every import subcommand needs.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	cfgDir string
	dryRun bool
	out    *output.Printer
}

func newSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	cfgPath, err := filepath.Abs(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := logger.New(level)

	return &session{
		ctx:    logger.WithContext(cmd.Context(), log),
		cfg:    cfg,
		cfgDir: filepath.Dir(cfgPath),
		dryRun: opts.dryRun,
		out:    output.New(cmd.OutOrStdout()),
	}, nil
}

func (s *session) server() (budgetapi.Server, error) {
	if s.dryRun {
		return s.dryRunServer(), nil
	}

	token, err := s.cfg.Token(s.cfgDir)
	if err != nil {
		return nil, err
	}
	return httpapi.NewServer(httpapi.Config{URL: s.cfg.Target.URL, Token: token})
}

func (s *session) dryRunServer() *memory.Server {
	srv := memory.NewServer(s.cfg.Target.DryRunPlaces)
	srv.AutoTransferPayees = true
	return srv
}

// openBudget opens budgetID on the server. Dry runs get a scratch budget.
func (s *session) openBudget(budgetID string) (budgetapi.Client, error) {
	if s.dryRun {
		return s.dryRunServer().CreateBudget("dry run"), nil
	}
	if budgetID == "" {
		return nil, fmt.Errorf("no budget given: pass --budget or set target.budget_id")
	}
	srv, err := s.server()
	if err != nil {
		return nil, err
	}
	return srv.OpenBudget(s.ctx, budgetID)
}

func (s *session) importer(c budgetapi.Client) *migrate.Importer {
	return migrate.New(c, migrate.OptionsFromConfig(s.cfg), logger.FromContext(s.ctx))
}

// summarize prints what r created and skipped and appends the skipped
// entities to the import log.
func (s *session) summarize(budget string, r *migrate.Report) {
	if r == nil {
		return
	}

	s.out.Header(budget)
	for _, phase := range r.Phases() {
		s.out.Success(fmt.Sprintf("%s: %d", phase, r.Created(phase)))
	}

	issues := r.Issues()
	if len(issues) > 0 {
		s.out.Warning(fmt.Sprintf("%d entities skipped", len(issues)))
		for _, is := range issues {
			s.out.Info(fmt.Sprintf("%s %s: %v", is.Phase, is.Ref, is.Err))
		}
	}
	if s.dryRun {
		s.out.Info("dry run: nothing was written to " + s.cfg.Target.URL)
	}

	path := s.logPath()
	if path == "" || len(issues) == 0 {
		return
	}
	if err := importlog.Append(path, importlog.FromReport(budget, r, time.Now())); err != nil {
		s.out.Warning(fmt.Sprintf("failed to write import log: %v", err))
	}
}

// logPath returns the import log location, relative paths taken from the
// config's directory. Empty when no log is configured.
func (s *session) logPath() string {
	path := s.cfg.Import.LogFile
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.cfgDir, path)
}
