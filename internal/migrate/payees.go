package migrate

import (
	"context"
	"fmt"

	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/ynab"
)

// importPayees creates payees one at a time. A transfer payee is bound to
// an existing target payee for the same account when the target already
// made one.
func (im *Importer) importPayees(ctx context.Context, b *ynab.Budget) error {
	existing, err := im.client.GetPayees(ctx)
	if err != nil {
		return fmt.Errorf("listing payees: %w", err)
	}
	transfer := make(map[string]string)
	for _, p := range existing {
		if p.TransferAccount != "" {
			transfer[p.TransferAccount] = p.ID
		}
	}

	for _, p := range b.Payees {
		if p.IsTombstone {
			continue
		}
		acct := im.resolve(p.TargetAccountID)
		if acct != "" {
			if payeeID, ok := transfer[acct]; ok {
				if err := im.ids.Bind(p.EntityID, payeeID); err != nil {
					return err
				}
				im.log.Debug().Str("payee", p.Name).Msg("reusing transfer payee")
				continue
			}
		}

		payeeID, err := im.client.CreatePayee(ctx, model.Payee{
			Name:            p.Name,
			Category:        im.resolve(p.AutoFillCategoryID),
			TransferAccount: acct,
		})
		if err != nil {
			return fmt.Errorf("creating payee %q: %w", p.Name, err)
		}
		if err := im.ids.Bind(p.EntityID, payeeID); err != nil {
			return err
		}
		if acct != "" {
			transfer[acct] = payeeID
		}
		im.report.AddCreated(PhasePayees, 1)
	}
	return nil
}
