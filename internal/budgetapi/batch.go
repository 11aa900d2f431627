package budgetapi

import (
	"context"
	"sync"
)

// BudgetOp is one staged allocation write. Exactly one of Amount and
// Carryover is set.
type BudgetOp struct {
	Month      string `json:"month"`
	CategoryID string `json:"category_id"`
	Amount     *int64 `json:"amount,omitempty"`
	Carryover  *bool  `json:"carryover,omitempty"`
}

// AmountOp builds a set-budgeted-amount op.
func AmountOp(month, categoryID string, amount int64) BudgetOp {
	return BudgetOp{Month: month, CategoryID: categoryID, Amount: &amount}
}

// CarryoverOp builds a set-carryover op.
func CarryoverOp(month, categoryID string, flag bool) BudgetOp {
	return BudgetOp{Month: month, CategoryID: categoryID, Carryover: &flag}
}

// Batch collects BudgetOps from concurrent callers in arrival order.
type Batch struct {
	mu  sync.Mutex
	ops []BudgetOp
}

// Add stages op.
func (b *Batch) Add(op BudgetOp) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, op)
}

// Ops returns a copy of the staged ops.
func (b *Batch) Ops() []BudgetOp {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BudgetOp, len(b.ops))
	copy(out, b.ops)
	return out
}

type batchKey struct{}

// WithBatch returns a context whose budget writes are staged into b.
func WithBatch(ctx context.Context, b *Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, b)
}

// BatchFrom returns the batch staged on ctx, if any.
func BatchFrom(ctx context.Context) (*Batch, bool) {
	b, ok := ctx.Value(batchKey{}).(*Batch)
	return b, ok
}
