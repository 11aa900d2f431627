package ynab

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Checks run by Validate.
const (
	CheckDuplicateID     = "duplicate-id"
	CheckUnknownAccount  = "unknown-account"
	CheckTransferPair    = "transfer-pair"
	CheckCategoryParent  = "category-parent"
	CheckAmountPrecision = "amount-precision"
	CheckSplitTotal      = "split-total"
)

// ValidationError describes one problem found in an export.
type ValidationError struct {
	Check       string
	EntityID    string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.EntityID, e.Description)
}

// Validate reports problems in b that an import would skip or reject.
// places is the number of decimal places the target stores.
func Validate(b *Budget, places int32) []ValidationError {
	var errs []ValidationError
	add := func(check, id, format string, args ...any) {
		errs = append(errs, ValidationError{Check: check, EntityID: id, Description: fmt.Sprintf(format, args...)})
	}

	// Duplicate entity IDs among live entities.
	seen := make(map[string]string)
	claim := func(kind, id string) {
		if prev, ok := seen[id]; ok {
			add(CheckDuplicateID, id, "%s reuses the ID of a %s", kind, prev)
			return
		}
		seen[id] = kind
	}
	for _, a := range b.Accounts {
		if !a.IsTombstone {
			claim("account", a.EntityID)
		}
	}
	for _, mc := range b.MasterCategories {
		if mc.IsTombstone {
			continue
		}
		claim("category group", mc.EntityID)
		for _, sc := range mc.SubCategories {
			if sc.IsTombstone {
				continue
			}
			claim("category", sc.EntityID)
			if sc.MasterCategoryID != "" && sc.MasterCategoryID != mc.EntityID {
				add(CheckCategoryParent, sc.EntityID, "listed under %s but names %s as its group", mc.EntityID, sc.MasterCategoryID)
			}
		}
	}
	for _, p := range b.Payees {
		if !p.IsTombstone {
			claim("payee", p.EntityID)
		}
	}

	accounts := make(map[string]bool)
	for _, a := range b.Accounts {
		if !a.IsTombstone {
			accounts[a.EntityID] = true
		}
	}
	live := make(map[string]Transaction)
	for _, t := range b.Transactions {
		if !t.IsTombstone {
			claim("transaction", t.EntityID)
			live[t.EntityID] = t
		}
	}

	for _, t := range b.Transactions {
		if t.IsTombstone {
			continue
		}
		if !accounts[t.AccountID] {
			add(CheckUnknownAccount, t.EntityID, "account %s is missing or deleted", t.AccountID)
		}
		if t.TransferTransactionID != "" {
			other, ok := live[t.TransferTransactionID]
			switch {
			case !ok:
				add(CheckTransferPair, t.EntityID, "transfer to missing or deleted transaction %s", t.TransferTransactionID)
			case other.TransferTransactionID != t.EntityID:
				add(CheckTransferPair, t.EntityID, "transfer partner %s points at %q", other.EntityID, other.TransferTransactionID)
			}
		}
		if !fits(t.Amount, places) {
			add(CheckAmountPrecision, t.EntityID, "amount %s has more than %d decimal places", t.Amount, places)
		}

		var subs []SubTransaction
		for _, s := range t.SubTransactions {
			if !s.IsTombstone {
				subs = append(subs, s)
			}
		}
		if len(subs) == 0 {
			continue
		}
		total := decimal.Zero
		for _, s := range subs {
			total = total.Add(s.Amount)
		}
		if !total.Equal(t.Amount) {
			add(CheckSplitTotal, t.EntityID, "splits total %s, transaction is %s", total, t.Amount)
		}
	}

	return errs
}

func fits(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
