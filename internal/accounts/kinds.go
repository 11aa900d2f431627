package accounts

import (
	"fmt"

	"github.com/budgetport/budgetport/internal/config"
	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/names"
)

// TypeFromYNAB maps a YNAB4 account type tag to a target account type.
// Unknown tags map to AccountTypeOther.
func TypeFromYNAB(tag string) model.AccountType {
	switch tag {
	case "Cash", "Checking":
		return model.AccountTypeChecking
	case "CreditCard":
		return model.AccountTypeCredit
	case "Savings":
		return model.AccountTypeSavings
	case "InvestmentAccount":
		return model.AccountTypeInvestment
	case "Mortgage":
		return model.AccountTypeMortgage
	default:
		return model.AccountTypeOther
	}
}

// ForSpreadsheet returns the account to create for a bank spreadsheet named
// name. Defaults are an open, on-budget account of type other; a matching
// override replaces them.
func ForSpreadsheet(name string, overrides []config.BankAccount) (model.Account, error) {
	acct := model.Account{
		Name: names.Clean(name),
		Type: model.AccountTypeOther,
	}
	for _, o := range overrides {
		if !names.Equal(o.Name, name) {
			continue
		}
		if o.Type != "" {
			acct.Type = model.AccountType(o.Type)
		}
		acct.OffBudget = o.OffBudget
		acct.Closed = o.Closed
		break
	}
	if !acct.Type.Valid() {
		return model.Account{}, fmt.Errorf("account %q: invalid type %q", name, acct.Type)
	}
	return acct, nil
}
