package accounts

import (
	"fmt"

	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/names"
)

// UnknownAccountError reports a target account ID missing from the
// fetched account list.
type UnknownAccountError struct {
	ID string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("account %q not found in target budget", e.ID)
}

// Service provides in-memory lookup over accounts fetched from the target.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// ByName returns the first account whose name matches name.
func (s *Service) ByName(name string) (model.Account, bool) {
	for _, a := range s.accounts {
		if names.Equal(a.Name, name) {
			return a, true
		}
	}
	return model.Account{}, false
}

// OffBudget reports whether the account is off budget. It returns
// *UnknownAccountError when the account is not in the list.
func (s *Service) OffBudget(id string) (bool, error) {
	a, ok := s.byID[id]
	if !ok {
		return false, &UnknownAccountError{ID: id}
	}
	return a.OffBudget, nil
}
