package migrate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/budgetport/budgetport/internal/accounts"
	"github.com/budgetport/budgetport/internal/importer"
	"github.com/budgetport/budgetport/internal/model"
)

// ImportBankFiles creates one account per spreadsheet and loads its rows.
func (im *Importer) ImportBankFiles(ctx context.Context, files []importer.AccountFile) error {
	g, gctx := im.group(ctx)
	for _, f := range files {
		g.Go(func() error {
			acct, err := accounts.ForSpreadsheet(f.AccountName, im.opts.Accounts)
			if err != nil {
				return err
			}
			accountID, err := im.client.CreateAccount(gctx, acct)
			if err != nil {
				return fmt.Errorf("creating account %q: %w", acct.Name, err)
			}
			im.report.AddCreated(PhaseAccounts, 1)
			return im.addBankTransactions(gctx, accountID, f)
		})
	}
	return g.Wait()
}

// ImportBankFile loads one spreadsheet into an existing budget, reusing the
// account with the same name or creating it.
func (im *Importer) ImportBankFile(ctx context.Context, f importer.AccountFile) error {
	existing, err := im.client.GetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	var accountID string
	if acct, ok := accounts.NewService(existing).ByName(f.AccountName); ok {
		accountID = acct.ID
		im.log.Debug().Str("account", acct.Name).Msg("reusing account")
	} else {
		acct, err := accounts.ForSpreadsheet(f.AccountName, im.opts.Accounts)
		if err != nil {
			return err
		}
		if accountID, err = im.client.CreateAccount(ctx, acct); err != nil {
			return fmt.Errorf("creating account %q: %w", acct.Name, err)
		}
		im.report.AddCreated(PhaseAccounts, 1)
	}
	return im.addBankTransactions(ctx, accountID, f)
}

func (im *Importer) addBankTransactions(ctx context.Context, accountID string, f importer.AccountFile) error {
	if f.Result == nil {
		return nil
	}
	for _, s := range f.Skipped {
		im.skip(PhaseBankFiles, s.Record, s)
	}

	txns := make([]model.Transaction, 0, len(f.Transactions))
	for _, bt := range f.Transactions {
		amount, err := im.conv.ToInteger(bt.Amount)
		if err != nil {
			record := fmt.Sprintf("%s row %d", filepath.Base(f.Path), bt.Row)
			im.skip(PhaseBankFiles, record, &model.MalformedInputError{Record: record, Field: "amount", Value: bt.Amount.String(), Err: err})
			continue
		}
		txn := model.Transaction{
			Account:       accountID,
			Date:          bt.Date,
			Amount:        amount,
			PayeeName:     bt.Payee,
			ImportedPayee: bt.Payee,
		}
		if bt.Description != "" && bt.Description != bt.Payee {
			txn.Notes = bt.Description
		}
		txns = append(txns, txn)
	}

	for _, batch := range chunks(txns, im.opts.BatchSize) {
		if err := im.client.AddTransactions(ctx, accountID, batch); err != nil {
			return fmt.Errorf("adding transactions from %s: %w", f.Path, err)
		}
		im.report.AddCreated(PhaseBankFiles, len(batch))
	}
	return nil
}
