package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/budgetport/budgetport/internal/budgetapi"
	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/period"
)

// IncomeCategoryName is the name of the category every new budget starts with.
const IncomeCategoryName = "Income"

// Budget is one in-memory target budget. It implements budgetapi.Client.
type Budget struct {
	ID   string
	Name string

	mu                 sync.Mutex
	places             int32
	autoTransferPayees bool
	accounts           []model.Account
	groups             []model.CategoryGroup
	payees             []model.Payee
	transactions       map[string][]model.Transaction
	amounts            map[string]map[string]int64
	carryover          map[string]map[string]bool
	applied            []budgetapi.BudgetOp
}

var _ budgetapi.Client = (*Budget)(nil)

func newBudget(id, name string, places int32, autoTransferPayees bool) *Budget {
	incomeGroup := uuid.NewString()
	return &Budget{
		ID:                 id,
		Name:               name,
		places:             places,
		autoTransferPayees: autoTransferPayees,
		groups: []model.CategoryGroup{{
			ID:       incomeGroup,
			Name:     IncomeCategoryName,
			IsIncome: true,
			Categories: []model.Category{{
				ID:       uuid.NewString(),
				Name:     IncomeCategoryName,
				GroupID:  incomeGroup,
				IsIncome: true,
			}},
		}},
		transactions: make(map[string][]model.Transaction),
		amounts:      make(map[string]map[string]int64),
		carryover:    make(map[string]map[string]bool),
	}
}

// AmountPlaces implements budgetapi.Client.
func (b *Budget) AmountPlaces() int32 { return b.places }

// CreateAccount implements budgetapi.Client.
func (b *Budget) CreateAccount(ctx context.Context, acct model.Account) (string, error) {
	if acct.Name == "" {
		return "", fmt.Errorf("account name is required")
	}
	if !acct.Type.Valid() {
		return "", fmt.Errorf("invalid account type %q", acct.Type)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct.ID = uuid.NewString()
	b.accounts = append(b.accounts, acct)
	if b.autoTransferPayees {
		b.payees = append(b.payees, model.Payee{
			ID:              uuid.NewString(),
			Name:            "Transfer: " + acct.Name,
			TransferAccount: acct.ID,
		})
	}
	return acct.ID, nil
}

// CreateCategoryGroup implements budgetapi.Client.
func (b *Budget) CreateCategoryGroup(ctx context.Context, group model.CategoryGroup) (string, error) {
	if group.Name == "" {
		return "", fmt.Errorf("category group name is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	group.ID = uuid.NewString()
	group.Categories = nil
	b.groups = append(b.groups, group)
	return group.ID, nil
}

// CreateCategory implements budgetapi.Client. The category goes to the top
// of its group.
func (b *Budget) CreateCategory(ctx context.Context, cat model.Category) (string, error) {
	if cat.Name == "" {
		return "", fmt.Errorf("category name is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.groups {
		g := &b.groups[i]
		if g.ID != cat.GroupID {
			continue
		}
		cat.ID = uuid.NewString()
		cat.IsIncome = g.IsIncome
		g.Categories = append([]model.Category{cat}, g.Categories...)
		return cat.ID, nil
	}
	return "", fmt.Errorf("category group not found: %q", cat.GroupID)
}

// CreatePayee implements budgetapi.Client.
func (b *Budget) CreatePayee(ctx context.Context, payee model.Payee) (string, error) {
	if payee.Name == "" {
		return "", fmt.Errorf("payee name is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if payee.Category != "" && !b.hasCategory(payee.Category) {
		return "", fmt.Errorf("payee %q: unknown category %q", payee.Name, payee.Category)
	}
	if payee.TransferAccount != "" && !b.hasAccount(payee.TransferAccount) {
		return "", fmt.Errorf("payee %q: unknown transfer account %q", payee.Name, payee.TransferAccount)
	}
	payee.ID = uuid.NewString()
	b.payees = append(b.payees, payee)
	return payee.ID, nil
}

// GetAccounts implements budgetapi.Client.
func (b *Budget) GetAccounts(ctx context.Context) ([]model.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Account, len(b.accounts))
	copy(out, b.accounts)
	return out, nil
}

// GetCategoryGroups implements budgetapi.Client.
func (b *Budget) GetCategoryGroups(ctx context.Context) ([]model.CategoryGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.CategoryGroup, len(b.groups))
	for i, g := range b.groups {
		g.Categories = append([]model.Category(nil), g.Categories...)
		out[i] = g
	}
	return out, nil
}

// GetCategories implements budgetapi.Client.
func (b *Budget) GetCategories(ctx context.Context) ([]model.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Category
	for _, g := range b.groups {
		out = append(out, g.Categories...)
	}
	return out, nil
}

// GetPayees implements budgetapi.Client.
func (b *Budget) GetPayees(ctx context.Context) ([]model.Payee, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Payee, len(b.payees))
	copy(out, b.payees)
	return out, nil
}

// AddTransactions implements budgetapi.Client. Transactions that carry a
// PayeeName but no PayeeID get a payee looked up or created by name.
func (b *Budget) AddTransactions(ctx context.Context, accountID string, txns []model.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasAccount(accountID) {
		return fmt.Errorf("account not found: %q", accountID)
	}

	for _, txn := range txns {
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		txn.Account = accountID
		if txn.PayeeID == "" && txn.PayeeName != "" {
			txn.PayeeID = b.payeeByName(txn.PayeeName)
		}
		b.transactions[accountID] = append(b.transactions[accountID], txn)
	}
	return nil
}

// SetBudgetAmount implements budgetapi.Client.
func (b *Budget) SetBudgetAmount(ctx context.Context, month, categoryID string, amount int64) error {
	return b.write(ctx, budgetapi.AmountOp(month, categoryID, amount))
}

// SetBudgetCarryover implements budgetapi.Client.
func (b *Budget) SetBudgetCarryover(ctx context.Context, month, categoryID string, flag bool) error {
	return b.write(ctx, budgetapi.CarryoverOp(month, categoryID, flag))
}

// BatchBudgetUpdates implements budgetapi.Client. Nothing is applied if fn
// fails or any staged op is invalid.
func (b *Budget) BatchBudgetUpdates(ctx context.Context, fn func(ctx context.Context) error) error {
	batch := &budgetapi.Batch{}
	if err := fn(budgetapi.WithBatch(ctx, batch)); err != nil {
		return err
	}

	ops := batch.Ops()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, op := range ops {
		if err := b.validate(op); err != nil {
			return err
		}
	}
	for _, op := range ops {
		b.apply(op)
	}
	return nil
}

func (b *Budget) write(ctx context.Context, op budgetapi.BudgetOp) error {
	if batch, ok := budgetapi.BatchFrom(ctx); ok {
		batch.Add(op)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.validate(op); err != nil {
		return err
	}
	b.apply(op)
	return nil
}

func (b *Budget) validate(op budgetapi.BudgetOp) error {
	if m, err := period.MonthOf(op.Month); err != nil || m != op.Month {
		return fmt.Errorf("invalid budget month %q", op.Month)
	}
	if !b.hasCategory(op.CategoryID) {
		return fmt.Errorf("category not found: %q", op.CategoryID)
	}
	return nil
}

func (b *Budget) apply(op budgetapi.BudgetOp) {
	if op.Amount != nil {
		if b.amounts[op.Month] == nil {
			b.amounts[op.Month] = make(map[string]int64)
		}
		b.amounts[op.Month][op.CategoryID] = *op.Amount
	}
	if op.Carryover != nil {
		if b.carryover[op.Month] == nil {
			b.carryover[op.Month] = make(map[string]bool)
		}
		b.carryover[op.Month][op.CategoryID] = *op.Carryover
	}
	b.applied = append(b.applied, op)
}

func (b *Budget) payeeByName(name string) string {
	for _, p := range b.payees {
		if p.Name == name && p.TransferAccount == "" {
			return p.ID
		}
	}
	p := model.Payee{ID: uuid.NewString(), Name: name}
	b.payees = append(b.payees, p)
	return p.ID
}

func (b *Budget) hasAccount(id string) bool {
	for _, a := range b.accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (b *Budget) hasCategory(id string) bool {
	for _, g := range b.groups {
		for _, c := range g.Categories {
			if c.ID == id {
				return true
			}
		}
	}
	return false
}

// Transactions returns the transactions stored for an account, in insertion order.
func (b *Budget) Transactions(accountID string) []model.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Transaction(nil), b.transactions[accountID]...)
}

// AllTransactions returns every stored transaction keyed by ID.
func (b *Budget) AllTransactions() map[string]model.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]model.Transaction)
	for _, txns := range b.transactions {
		for _, t := range txns {
			out[t.ID] = t
		}
	}
	return out
}

// BudgetAmount returns the budgeted amount for a category in a month.
func (b *Budget) BudgetAmount(month, categoryID string) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.amounts[month][categoryID]
	return v, ok
}

// Carryover returns the carryover flag for a category in a month.
func (b *Budget) Carryover(month, categoryID string) (bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.carryover[month][categoryID]
	return v, ok
}

// AppliedOps returns every budget write in the order it was applied.
func (b *Budget) AppliedOps() []budgetapi.BudgetOp {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]budgetapi.BudgetOp(nil), b.applied...)
}
