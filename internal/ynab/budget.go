// Package ynab reads YNAB4 budget exports (Budget.yfull documents).
package ynab

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

// Well-known category references that are not real categories.
const (
	CategorySplit           = "Category/__Split__"
	CategoryImmediateIncome = "Category/__ImmediateIncome__"
	CategoryDeferredIncome  = "Category/__DeferredIncome__"
)

// MasterCategoryOutflow marks expense category groups.
const MasterCategoryOutflow = "OUTFLOW"

// Budget is the subset of a YNAB4 export needed for migration.
type Budget struct {
	Accounts         []Account        `json:"accounts"`
	MasterCategories []MasterCategory `json:"masterCategories"`
	Payees           []Payee          `json:"payees"`
	Transactions     []Transaction    `json:"transactions"`
	MonthlyBudgets   []MonthlyBudget  `json:"monthlyBudgets"`
}

// Account is a YNAB4 account.
type Account struct {
	EntityID      string `json:"entityId"`
	AccountName   string `json:"accountName"`
	AccountType   string `json:"accountType"`
	OnBudget      bool   `json:"onBudget"`
	Hidden        bool   `json:"hidden"`
	SortableIndex int    `json:"sortableIndex"`
	IsTombstone   bool   `json:"isTombstone"`
}

// MasterCategory is a YNAB4 category group.
type MasterCategory struct {
	EntityID      string        `json:"entityId"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	SortableIndex int           `json:"sortableIndex"`
	IsTombstone   bool          `json:"isTombstone"`
	SubCategories []SubCategory `json:"subCategories"`
}

// SubCategory is a YNAB4 category.
type SubCategory struct {
	EntityID         string `json:"entityId"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	MasterCategoryID string `json:"masterCategoryId"`
	SortableIndex    int    `json:"sortableIndex"`
	IsTombstone      bool   `json:"isTombstone"`
}

// Payee is a YNAB4 payee. TargetAccountID is set on transfer payees.
type Payee struct {
	EntityID           string `json:"entityId"`
	Name               string `json:"name"`
	AutoFillCategoryID string `json:"autoFillCategoryId"`
	TargetAccountID    string `json:"targetAccountId"`
	IsTombstone        bool   `json:"isTombstone"`
}

// Transaction is a YNAB4 transaction or transfer leg.
type Transaction struct {
	EntityID              string           `json:"entityId"`
	AccountID             string           `json:"accountId"`
	Date                  string           `json:"date"`
	Amount                decimal.Decimal  `json:"amount"`
	Memo                  string           `json:"memo"`
	Cleared               string           `json:"cleared"`
	PayeeID               string           `json:"payeeId"`
	CategoryID            string           `json:"categoryId"`
	TransferTransactionID string           `json:"transferTransactionId"`
	TargetAccountID       string           `json:"targetAccountId"`
	IsTombstone           bool             `json:"isTombstone"`
	SubTransactions       []SubTransaction `json:"subTransactions"`
}

// IsCleared reports whether the bank has cleared the transaction.
func (t Transaction) IsCleared() bool {
	return t.Cleared == "Cleared" || t.Cleared == "Reconciled"
}

// SubTransaction is one split of a YNAB4 transaction.
type SubTransaction struct {
	EntityID    string          `json:"entityId"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"categoryId"`
	Memo        string          `json:"memo"`
	IsTombstone bool            `json:"isTombstone"`
}

// MonthlyBudget holds the allocations for one month.
type MonthlyBudget struct {
	EntityID                  string              `json:"entityId"`
	Month                     string              `json:"month"`
	MonthlySubCategoryBudgets []SubCategoryBudget `json:"monthlySubCategoryBudgets"`
}

// SubCategoryBudget is one category's allocation for a month.
type SubCategoryBudget struct {
	EntityID             string          `json:"entityId"`
	CategoryID           string          `json:"categoryId"`
	Budgeted             decimal.Decimal `json:"budgeted"`
	OverspendingHandling string          `json:"overspendingHandling"`
	IsTombstone          bool            `json:"isTombstone"`
}

// Decode reads a budget document.
func Decode(r io.Reader) (*Budget, error) {
	var b Budget
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding budget: %w", err)
	}
	return &b, nil
}

// Load reads a Budget.yfull file from disk.
func Load(path string) (*Budget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening budget: %w", err)
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return b, nil
}
