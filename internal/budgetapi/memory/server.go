// Package memory is an in-memory target budget used for dry runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/budgetport/budgetport/internal/budgetapi"
)

// Server is an in-memory implementation of budgetapi.Server.
// It is safe for concurrent use.
type Server struct {
	mu      sync.RWMutex
	budgets map[string]*Budget
	places  int32

	// AutoTransferPayees makes every new account get a transfer payee,
	// the way hosted budgeting apps usually do.
	AutoTransferPayees bool
}

// NewServer creates an empty Server whose budgets store amounts with the
// given number of minor-unit places.
func NewServer(places int32) *Server {
	return &Server{
		budgets: make(map[string]*Budget),
		places:  places,
	}
}

// CreateBudget adds an empty budget and returns it.
func (s *Server) CreateBudget(name string) *Budget {
	b := newBudget(uuid.NewString(), name, s.places, s.AutoTransferPayees)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = b
	return b
}

// RunImport implements budgetapi.Server.
func (s *Server) RunImport(ctx context.Context, name string, fn func(ctx context.Context, c budgetapi.Client) error) error {
	b := s.CreateBudget(name)
	if err := fn(ctx, b); err != nil {
		s.mu.Lock()
		delete(s.budgets, b.ID)
		s.mu.Unlock()
		return err
	}
	return nil
}

// OpenBudget implements budgetapi.Server.
func (s *Server) OpenBudget(ctx context.Context, budgetID string) (budgetapi.Client, error) {
	b, ok := s.Budget(budgetID)
	if !ok {
		return nil, fmt.Errorf("budget not found: %s", budgetID)
	}
	return b, nil
}

// Budget returns a budget by ID.
func (s *Server) Budget(budgetID string) (*Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[budgetID]
	return b, ok
}
