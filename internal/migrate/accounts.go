package migrate

import (
	"context"
	"fmt"

	"github.com/budgetport/budgetport/internal/accounts"
	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/names"
	"github.com/budgetport/budgetport/internal/ynab"
)

func (im *Importer) importAccounts(ctx context.Context, b *ynab.Budget) error {
	g, gctx := im.group(ctx)
	for _, a := range b.Accounts {
		if a.IsTombstone {
			continue
		}
		g.Go(func() error {
			targetID, err := im.client.CreateAccount(gctx, model.Account{
				Name:      names.Clean(a.AccountName),
				Type:      accounts.TypeFromYNAB(a.AccountType),
				OffBudget: !a.OnBudget,
				Closed:    a.Hidden,
			})
			if err != nil {
				return fmt.Errorf("creating account %q: %w", a.AccountName, err)
			}
			if err := im.ids.Bind(a.EntityID, targetID); err != nil {
				return err
			}
			im.log.Debug().Str("account", a.AccountName).Str("id", targetID).Msg("account created")
			im.report.AddCreated(PhaseAccounts, 1)
			return nil
		})
	}
	return g.Wait()
}
