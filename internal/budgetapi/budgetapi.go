// Package budgetapi defines the target budgeting application's API as seen by
// the importer. Implementations live in the memory and httpapi subpackages.
package budgetapi

import (
	"context"

	"github.com/budgetport/budgetport/internal/model"
)

// Client operates on one open target budget.
type Client interface {
	// AmountPlaces is the number of minor-unit decimal places the target
	// stores amounts in (2 for integer cents).
	AmountPlaces() int32

	CreateAccount(ctx context.Context, acct model.Account) (string, error)
	CreateCategoryGroup(ctx context.Context, group model.CategoryGroup) (string, error)
	// CreateCategory inserts the category at the top of its group, ahead of
	// every category created before it.
	CreateCategory(ctx context.Context, cat model.Category) (string, error)
	CreatePayee(ctx context.Context, payee model.Payee) (string, error)

	GetAccounts(ctx context.Context) ([]model.Account, error)
	// GetCategoryGroups lists groups with their categories in display order.
	GetCategoryGroups(ctx context.Context) ([]model.CategoryGroup, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetPayees(ctx context.Context) ([]model.Payee, error)

	// AddTransactions inserts a batch of transactions into one account.
	// Transactions with an ID keep it, so transfer legs can reference each
	// other before both are inserted.
	AddTransactions(ctx context.Context, accountID string, txns []model.Transaction) error

	SetBudgetAmount(ctx context.Context, month, categoryID string, amount int64) error
	SetBudgetCarryover(ctx context.Context, month, categoryID string, flag bool) error
	// BatchBudgetUpdates stages every budget write made with the context
	// passed to fn and applies them as one unit if fn returns nil.
	BatchBudgetUpdates(ctx context.Context, fn func(ctx context.Context) error) error
}

// Server creates and opens target budgets.
type Server interface {
	// RunImport creates a budget named name, runs fn against it and
	// discards the budget if fn fails.
	RunImport(ctx context.Context, name string, fn func(ctx context.Context, c Client) error) error
	OpenBudget(ctx context.Context, budgetID string) (Client, error)
}
