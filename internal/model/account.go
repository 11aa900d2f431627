package model

// AccountType classifies target-budget accounts.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeMortgage   AccountType = "mortgage"
	AccountTypeOther      AccountType = "other"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeCredit, AccountTypeSavings,
		AccountTypeInvestment, AccountTypeMortgage, AccountTypeOther:
		return true
	}
	return false
}

// Account is a target-budget account.
type Account struct {
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	OffBudget bool        `json:"offbudget"`
	Closed    bool        `json:"closed"`
}

// CategoryGroup is a top-level node of the category tree.
type CategoryGroup struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	IsIncome   bool       `json:"is_income"`
	Categories []Category `json:"categories,omitempty"`
}

// Category is a leaf of the category tree. Read-backs list categories in
// display order within each group.
type Category struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	GroupID  string `json:"group_id"`
	IsIncome bool   `json:"is_income,omitempty"`
}

// Payee is a transaction counterparty. TransferAccount is set for the
// synthetic payees that stand for "transfer to/from account X".
type Payee struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	TransferAccount string `json:"transfer_acct,omitempty"`
}
