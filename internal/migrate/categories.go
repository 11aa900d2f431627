package migrate

import (
	"context"
	"fmt"
	"sort"

	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/ynab"
)

// importCategories creates expense groups concurrently. Within a group the
// target inserts each new category at the top, so children are created in
// descending sortableIndex to end up ascending.
func (im *Importer) importCategories(ctx context.Context, b *ynab.Budget) error {
	g, gctx := im.group(ctx)
	for _, mc := range b.MasterCategories {
		if !importableGroup(mc) {
			continue
		}
		g.Go(func() error {
			return im.importCategoryGroup(gctx, mc)
		})
	}
	return g.Wait()
}

func importableGroup(mc ynab.MasterCategory) bool {
	if mc.Type != ynab.MasterCategoryOutflow || mc.IsTombstone {
		return false
	}
	for _, sc := range mc.SubCategories {
		if !sc.IsTombstone {
			return true
		}
	}
	return false
}

func (im *Importer) importCategoryGroup(ctx context.Context, mc ynab.MasterCategory) error {
	groupID, err := im.client.CreateCategoryGroup(ctx, model.CategoryGroup{Name: mc.Name})
	if err != nil {
		return fmt.Errorf("creating category group %q: %w", mc.Name, err)
	}
	if err := im.ids.Bind(mc.EntityID, groupID); err != nil {
		return err
	}
	im.report.AddCreated(PhaseCategories, 1)

	subs := append([]ynab.SubCategory(nil), mc.SubCategories...)
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SortableIndex < subs[j].SortableIndex
	})

	for i := len(subs) - 1; i >= 0; i-- {
		sc := subs[i]
		if sc.IsTombstone {
			continue
		}
		parent := sc.MasterCategoryID
		if parent == "" {
			parent = mc.EntityID
		}
		parentID, ok := im.ids.Resolve(parent)
		if !ok {
			im.skip(PhaseCategories, sc.EntityID, &UnresolvedReferenceError{Kind: "category group", Ref: parent, Field: "masterCategoryId"})
			continue
		}

		catID, err := im.client.CreateCategory(ctx, model.Category{Name: sc.Name, GroupID: parentID})
		if err != nil {
			return fmt.Errorf("creating category %q: %w", sc.Name, err)
		}
		if err := im.ids.Bind(sc.EntityID, catID); err != nil {
			return err
		}
		im.report.AddCreated(PhaseCategories, 1)
	}
	return nil
}
