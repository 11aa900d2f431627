package migrate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/budgetport/budgetport/internal/accounts"
	"github.com/budgetport/budgetport/internal/id"
	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/money"
	"github.com/budgetport/budgetport/internal/names"
	"github.com/budgetport/budgetport/internal/period"
	"github.com/budgetport/budgetport/internal/ynab"
)

// txnTranslator turns YNAB4 transactions into target transactions using
// lookups fetched once before the per-account fan out. It is read-only
// after construction.
type txnTranslator struct {
	ids        *id.Resolver
	conv       money.Converter
	log        zerolog.Logger
	accounts   *accounts.Service
	income     string
	byTransfer map[string][]string // target account -> payee IDs linked to it
	legs       map[string]ynab.Transaction
}

func (im *Importer) importTransactions(ctx context.Context, b *ynab.Budget) error {
	cats, err := im.client.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	accts, err := im.client.GetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}
	payees, err := im.client.GetPayees(ctx)
	if err != nil {
		return fmt.Errorf("listing payees: %w", err)
	}

	tr := &txnTranslator{
		ids:        im.ids,
		conv:       im.conv,
		log:        im.log,
		accounts:   accounts.NewService(accts),
		income:     findIncome(cats, im.opts.IncomeCategory),
		byTransfer: make(map[string][]string),
		legs:       make(map[string]ynab.Transaction),
	}
	if tr.income == "" {
		im.log.Warn().Str("name", im.opts.IncomeCategory).Msg("income category not found in target")
	}
	for _, p := range payees {
		if p.TransferAccount != "" {
			tr.byTransfer[p.TransferAccount] = append(tr.byTransfer[p.TransferAccount], p.ID)
		}
	}

	// Bind every live transaction before translating any of them so a
	// transfer leg can point at its counterpart in another account.
	var order []string
	byAccount := make(map[string][]ynab.Transaction)
	for _, t := range b.Transactions {
		if t.IsTombstone {
			continue
		}
		if err := im.ids.Bind(t.EntityID, id.NewTargetID()); err != nil {
			return fmt.Errorf("binding transaction: %w", err)
		}
		tr.legs[t.EntityID] = t
		if _, ok := byAccount[t.AccountID]; !ok {
			order = append(order, t.AccountID)
		}
		byAccount[t.AccountID] = append(byAccount[t.AccountID], t)
	}

	g, gctx := im.group(ctx)
	for _, ref := range order {
		txns := byAccount[ref]
		g.Go(func() error {
			return im.importAccountTransactions(gctx, tr, ref, txns)
		})
	}
	return g.Wait()
}

func findIncome(cats []model.Category, name string) string {
	for _, c := range cats {
		if c.IsIncome && names.Equal(c.Name, name) {
			return c.ID
		}
	}
	for _, c := range cats {
		if names.Equal(c.Name, name) {
			return c.ID
		}
	}
	return ""
}

func (im *Importer) importAccountTransactions(ctx context.Context, tr *txnTranslator, accountRef string, txns []ynab.Transaction) error {
	accountID, ok := im.ids.Resolve(accountRef)
	if !ok {
		for _, t := range txns {
			im.skip(PhaseTransactions, t.EntityID, &UnresolvedReferenceError{Kind: "account", Ref: accountRef, Field: "accountId"})
		}
		return nil
	}
	offBudget, err := tr.accounts.OffBudget(accountID)
	if err != nil {
		for _, t := range txns {
			im.skip(PhaseTransactions, t.EntityID, err)
		}
		return nil
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		txn, err := tr.translate(t, accountID, offBudget)
		if err != nil {
			im.skip(PhaseTransactions, t.EntityID, err)
			continue
		}
		out = append(out, txn)
	}

	for _, batch := range chunks(out, im.opts.BatchSize) {
		if err := im.client.AddTransactions(ctx, accountID, batch); err != nil {
			return fmt.Errorf("adding transactions to account %s: %w", accountID, err)
		}
		im.report.AddCreated(PhaseTransactions, len(batch))
	}
	return nil
}

func (tr *txnTranslator) translate(t ynab.Transaction, accountID string, offBudget bool) (model.Transaction, error) {
	targetID, ok := tr.ids.Resolve(t.EntityID)
	if !ok {
		return model.Transaction{}, &UnresolvedReferenceError{Kind: "transaction", Ref: t.EntityID, Field: "entityId"}
	}
	date, err := period.Parse(t.Date)
	if err != nil {
		return model.Transaction{}, &model.MalformedInputError{Record: t.EntityID, Field: "date", Value: t.Date, Err: err}
	}

	amount, err := tr.conv.ToInteger(t.Amount)
	if err != nil {
		return model.Transaction{}, &model.MalformedInputError{Record: t.EntityID, Field: "amount", Value: t.Amount.String(), Err: err}
	}

	txn := model.Transaction{
		ID:      targetID,
		Account: accountID,
		Date:    date,
		Amount:  amount,
		Notes:   t.Memo,
		Cleared: t.IsCleared(),
	}

	if t.TransferTransactionID != "" {
		transferID, ok := tr.ids.Resolve(t.TransferTransactionID)
		if !ok {
			return model.Transaction{}, &UnresolvedReferenceError{Kind: "transaction", Ref: t.TransferTransactionID, Field: "transferTransactionId"}
		}
		payeeID, err := tr.transferPayee(t)
		if err != nil {
			return model.Transaction{}, err
		}
		txn.TransferID = transferID
		txn.PayeeID = payeeID
	} else if t.PayeeID != "" {
		txn.PayeeID, _ = tr.ids.Resolve(t.PayeeID)
	}

	if !offBudget {
		if txn.CategoryID, err = tr.category(t.CategoryID); err != nil {
			return model.Transaction{}, err
		}
	}

	for _, s := range t.SubTransactions {
		if s.IsTombstone {
			continue
		}
		subAmount, err := tr.conv.ToInteger(s.Amount)
		if err != nil {
			return model.Transaction{}, &model.MalformedInputError{Record: t.EntityID + "/" + s.EntityID, Field: "amount", Value: s.Amount.String(), Err: err}
		}
		sub := model.Subtransaction{
			Amount: subAmount,
			Notes:  s.Memo,
		}
		if !offBudget {
			if sub.CategoryID, err = tr.category(s.CategoryID); err != nil {
				return model.Transaction{}, err
			}
		}
		txn.Subtransactions = append(txn.Subtransactions, sub)
	}
	return txn, nil
}

// transferPayee picks the payee linked to the other side of a transfer.
func (tr *txnTranslator) transferPayee(t ynab.Transaction) (string, error) {
	otherRef := t.TargetAccountID
	if otherRef == "" {
		if leg, ok := tr.legs[t.TransferTransactionID]; ok {
			otherRef = leg.AccountID
		}
	}
	other, ok := tr.ids.Resolve(otherRef)
	if !ok {
		return "", &UnresolvedReferenceError{Kind: "account", Ref: otherRef, Field: "targetAccountId"}
	}

	matches := tr.byTransfer[other]
	if len(matches) != 1 {
		return "", &TransferPayeeError{Account: other, Matches: len(matches)}
	}
	return matches[0], nil
}

func (tr *txnTranslator) category(ref string) (string, error) {
	switch ref {
	case "", ynab.CategorySplit:
		return "", nil
	case ynab.CategoryImmediateIncome, ynab.CategoryDeferredIncome:
		if tr.income == "" {
			return "", &UnresolvedReferenceError{Kind: "category", Ref: ref, Field: "categoryId"}
		}
		return tr.income, nil
	}
	catID, ok := tr.ids.Resolve(ref)
	if !ok {
		tr.log.Debug().Str("category", ref).Msg("category not imported, leaving transaction uncategorized")
		return "", nil
	}
	return catID, nil
}
