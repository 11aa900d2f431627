package migrate

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/budgetport/budgetport/internal/carryover"
	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/period"
	"github.com/budgetport/budgetport/internal/ynab"
)

// FillBudgets returns entries plus a zero allocation with no overspending
// handling for every live category of tree that entries do not cover.
// Tombstoned entries do not count as covering their category.
func FillBudgets(tree []ynab.MasterCategory, entries []ynab.SubCategoryBudget) []ynab.SubCategoryBudget {
	covered := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsTombstone {
			covered[e.CategoryID] = true
		}
	}

	out := append([]ynab.SubCategoryBudget(nil), entries...)
	for _, mc := range tree {
		if mc.IsTombstone {
			continue
		}
		for _, sc := range mc.SubCategories {
			if sc.IsTombstone || covered[sc.EntityID] {
				continue
			}
			covered[sc.EntityID] = true
			out = append(out, ynab.SubCategoryBudget{CategoryID: sc.EntityID})
		}
	}
	return out
}

type budgetMonth struct {
	key     string // YYYY-MM
	date    civil.Date
	entries []ynab.SubCategoryBudget
}

type budgetWrite struct {
	category  string
	amount    int64
	carryover bool
}

// importBudgets replays monthly allocations oldest month first. Carryover
// state flows from one month into the next, so each month's decisions are
// made before its writes fan out, and the next month waits for them.
func (im *Importer) importBudgets(ctx context.Context, b *ynab.Budget) error {
	months := im.budgetMonths(b.MonthlyBudgets)
	if len(months) == 0 {
		return nil
	}

	calc := carryover.NewCalculator()
	return im.client.BatchBudgetUpdates(ctx, func(ctx context.Context) error {
		for _, m := range months {
			writes := im.monthWrites(calc, m.key, FillBudgets(b.MasterCategories, m.entries))

			g, gctx := im.group(ctx)
			for _, w := range writes {
				g.Go(func() error {
					if err := im.client.SetBudgetAmount(gctx, m.key, w.category, w.amount); err != nil {
						return fmt.Errorf("setting budget amount: %w", err)
					}
					if w.carryover {
						if err := im.client.SetBudgetCarryover(gctx, m.key, w.category, true); err != nil {
							return fmt.Errorf("setting carryover: %w", err)
						}
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return fmt.Errorf("budget month %s: %w", m.key, err)
			}
			im.report.AddCreated(PhaseBudgets, len(writes))
			im.log.Debug().Str("month", m.key).Int("categories", len(writes)).Msg("budget month imported")
		}
		return nil
	})
}

// budgetMonths parses and orders the monthly budgets, merging documents
// that fall in the same calendar month.
func (im *Importer) budgetMonths(in []ynab.MonthlyBudget) []*budgetMonth {
	byKey := make(map[string]*budgetMonth)
	var months []*budgetMonth
	for _, mb := range in {
		d, err := period.Parse(mb.Month)
		if err != nil {
			im.skip(PhaseBudgets, mb.EntityID, &model.MalformedInputError{Record: mb.EntityID, Field: "month", Value: mb.Month, Err: err})
			continue
		}
		key := period.Month(d)
		m, ok := byKey[key]
		if !ok {
			m = &budgetMonth{key: key, date: d}
			byKey[key] = m
			months = append(months, m)
		}
		m.entries = append(m.entries, mb.MonthlySubCategoryBudgets...)
	}
	sort.SliceStable(months, func(i, j int) bool {
		return months[i].date.Before(months[j].date)
	})
	return months
}

func (im *Importer) monthWrites(calc *carryover.Calculator, month string, entries []ynab.SubCategoryBudget) []budgetWrite {
	seen := make(map[string]bool, len(entries))
	writes := make([]budgetWrite, 0, len(entries))
	for _, e := range entries {
		if e.IsTombstone {
			continue
		}
		catID, ok := im.ids.Resolve(e.CategoryID)
		if !ok {
			im.log.Debug().Str("category", e.CategoryID).Msg("no imported category for budget entry")
			continue
		}
		if seen[catID] {
			continue
		}
		seen[catID] = true

		amount, err := im.conv.ToInteger(e.Budgeted)
		if err != nil {
			ref := month + "/" + e.CategoryID
			im.skip(PhaseBudgets, ref, &model.MalformedInputError{Record: ref, Field: "budgeted", Value: e.Budgeted.String(), Err: err})
			continue
		}

		d := calc.Apply(catID, carryover.ParseMode(e.OverspendingHandling))
		writes = append(writes, budgetWrite{
			category:  catID,
			amount:    amount,
			carryover: d.SetCarryover,
		})
	}
	return writes
}
