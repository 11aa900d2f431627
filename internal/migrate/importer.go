// Package migrate translates a YNAB4 budget, or a set of bank spreadsheets,
// into a target budget through budgetapi.Client.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/budgetport/budgetport/internal/budgetapi"
	"github.com/budgetport/budgetport/internal/config"
	"github.com/budgetport/budgetport/internal/id"
	"github.com/budgetport/budgetport/internal/money"
	"github.com/budgetport/budgetport/internal/ynab"
)

// Options tune an import.
type Options struct {
	IncomeCategory string
	BatchSize      int
	Concurrency    int
	Accounts       []config.BankAccount // overrides for spreadsheet accounts
}

// OptionsFromConfig builds Options from the import and accounts sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		IncomeCategory: cfg.Import.IncomeCategory,
		BatchSize:      cfg.Import.BatchSize,
		Concurrency:    cfg.Import.Concurrency,
		Accounts:       cfg.Accounts,
	}
}

// Importer runs one import against one target budget. Create a new
// Importer per import; its identifier bindings are not reusable.
type Importer struct {
	client budgetapi.Client
	ids    *id.Resolver
	conv   money.Converter
	opts   Options
	log    zerolog.Logger
	report *Report
}

// New creates an Importer writing to client.
func New(client budgetapi.Client, opts Options, log zerolog.Logger) *Importer {
	def := config.Default().Import
	if opts.IncomeCategory == "" {
		opts.IncomeCategory = def.IncomeCategory
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = def.BatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	return &Importer{
		client: client,
		ids:    id.NewResolver(),
		conv:   money.NewConverter(client.AmountPlaces()),
		opts:   opts,
		log:    log,
		report: NewReport(),
	}
}

// Resolver exposes the foreign-to-target bindings made so far.
func (im *Importer) Resolver() *id.Resolver { return im.ids }

// Report returns the running report.
func (im *Importer) Report() *Report { return im.report }

type phase struct {
	name string
	run  func(ctx context.Context, b *ynab.Budget) error
}

// Run imports b. Phases run in dependency order and a failing phase stops
// the import. Entities that cannot be translated are recorded in the report
// and skipped.
func (im *Importer) Run(ctx context.Context, b *ynab.Budget) (*Report, error) {
	phases := []phase{
		{PhaseAccounts, im.importAccounts},
		{PhaseCategories, im.importCategories},
		{PhasePayees, im.importPayees},
		{PhaseTransactions, im.importTransactions},
		{PhaseBudgets, im.importBudgets},
	}

	im.log.Info().Int32("amount_places", im.conv.Places()).Msg("starting import")
	for _, p := range phases {
		start := time.Now()
		im.log.Info().Str("phase", p.name).Msg("importing")
		if err := p.run(ctx, b); err != nil {
			return im.report, fmt.Errorf("importing %s: %w", p.name, err)
		}
		im.log.Info().
			Str("phase", p.name).
			Int("created", im.report.Created(p.name)).
			Dur("took", time.Since(start)).
			Msg("imported")
	}
	im.log.Info().Int("bindings", im.ids.Len()).Int("skipped", len(im.report.Issues())).Msg("import finished")
	return im.report, nil
}

func (im *Importer) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.opts.Concurrency)
	return g, gctx
}

func (im *Importer) skip(phase, ref string, err error) {
	im.log.Warn().Str("phase", phase).Str("ref", ref).Err(err).Msg("skipped")
	im.report.AddIssue(phase, ref, err)
}

// resolve returns the target ID bound to ref, or "" when ref is empty or
// unbound.
func (im *Importer) resolve(ref string) string {
	if ref == "" {
		return ""
	}
	target, _ := im.ids.Resolve(ref)
	return target
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		out = append(out, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
