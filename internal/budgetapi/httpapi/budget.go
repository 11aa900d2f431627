package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/budgetport/budgetport/internal/budgetapi"
	"github.com/budgetport/budgetport/internal/model"
)

// Budget is one remote budget. It implements budgetapi.Client.
type Budget struct {
	srv    *Server
	id     string
	name   string
	places int32
}

var _ budgetapi.Client = (*Budget)(nil)

// ID returns the remote budget ID.
func (b *Budget) ID() string { return b.id }

// Name returns the budget name.
func (b *Budget) Name() string { return b.name }

// AmountPlaces implements budgetapi.Client.
func (b *Budget) AmountPlaces() int32 { return b.places }

func (b *Budget) path(parts ...string) string {
	p := "/budgets/" + url.PathEscape(b.id)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (b *Budget) create(ctx context.Context, collection string, in any) (string, error) {
	var out created
	if err := b.srv.do(ctx, http.MethodPost, b.path(collection), in, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("server returned no id for new %s", collection)
	}
	return out.ID, nil
}

// CreateAccount implements budgetapi.Client.
func (b *Budget) CreateAccount(ctx context.Context, acct model.Account) (string, error) {
	return b.create(ctx, "accounts", acct)
}

// CreateCategoryGroup implements budgetapi.Client.
func (b *Budget) CreateCategoryGroup(ctx context.Context, group model.CategoryGroup) (string, error) {
	group.Categories = nil
	return b.create(ctx, "category-groups", group)
}

// CreateCategory implements budgetapi.Client.
func (b *Budget) CreateCategory(ctx context.Context, cat model.Category) (string, error) {
	return b.create(ctx, "categories", cat)
}

// CreatePayee implements budgetapi.Client.
func (b *Budget) CreatePayee(ctx context.Context, payee model.Payee) (string, error) {
	return b.create(ctx, "payees", payee)
}

func list[T any](ctx context.Context, b *Budget, collection string) ([]T, error) {
	var out []T
	if err := b.srv.do(ctx, http.MethodGet, b.path(collection), nil, &out); err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	return out, nil
}

// GetAccounts implements budgetapi.Client.
func (b *Budget) GetAccounts(ctx context.Context) ([]model.Account, error) {
	return list[model.Account](ctx, b, "accounts")
}

// GetCategoryGroups implements budgetapi.Client.
func (b *Budget) GetCategoryGroups(ctx context.Context) ([]model.CategoryGroup, error) {
	return list[model.CategoryGroup](ctx, b, "category-groups")
}

// GetCategories implements budgetapi.Client.
func (b *Budget) GetCategories(ctx context.Context) ([]model.Category, error) {
	return list[model.Category](ctx, b, "categories")
}

// GetPayees implements budgetapi.Client.
func (b *Budget) GetPayees(ctx context.Context) ([]model.Payee, error) {
	return list[model.Payee](ctx, b, "payees")
}

// AddTransactions implements budgetapi.Client.
func (b *Budget) AddTransactions(ctx context.Context, accountID string, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	req := struct {
		Transactions []model.Transaction `json:"transactions"`
	}{txns}
	return b.srv.do(ctx, http.MethodPost, b.path("accounts", accountID, "transactions"), req, nil)
}

// SetBudgetAmount implements budgetapi.Client.
func (b *Budget) SetBudgetAmount(ctx context.Context, month, categoryID string, amount int64) error {
	return b.write(ctx, budgetapi.AmountOp(month, categoryID, amount))
}

// SetBudgetCarryover implements budgetapi.Client.
func (b *Budget) SetBudgetCarryover(ctx context.Context, month, categoryID string, flag bool) error {
	return b.write(ctx, budgetapi.CarryoverOp(month, categoryID, flag))
}

// BatchBudgetUpdates implements budgetapi.Client. The staged ops are sent
// in a single request once fn returns.
func (b *Budget) BatchBudgetUpdates(ctx context.Context, fn func(ctx context.Context) error) error {
	batch := &budgetapi.Batch{}
	if err := fn(budgetapi.WithBatch(ctx, batch)); err != nil {
		return err
	}
	return b.postOps(ctx, batch.Ops())
}

func (b *Budget) write(ctx context.Context, op budgetapi.BudgetOp) error {
	if batch, ok := budgetapi.BatchFrom(ctx); ok {
		batch.Add(op)
		return nil
	}
	return b.postOps(ctx, []budgetapi.BudgetOp{op})
}

func (b *Budget) postOps(ctx context.Context, ops []budgetapi.BudgetOp) error {
	if len(ops) == 0 {
		return nil
	}
	req := struct {
		Ops []budgetapi.BudgetOp `json:"ops"`
	}{ops}
	if err := b.srv.do(ctx, http.MethodPost, b.path("budget-months"), req, nil); err != nil {
		return fmt.Errorf("applying %d budget updates: %w", len(ops), err)
	}
	return nil
}
